package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"chatbot/internal/domain"
	"chatbot/internal/infra"
)

type ClaudeClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewClaudeClient(apiKey, model string) *ClaudeClient {
	return NewClaudeClientWithURL(apiKey, model, "https://api.anthropic.com/v1")
}

func NewClaudeClientWithURL(apiKey, model, baseURL string) *ClaudeClient {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &ClaudeClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		model:      model,
	}
}

func (c *ClaudeClient) Model() string {
	return c.model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system"`
	Messages    []message `json:"messages"`
}

// Generate sends one Messages API call. Text blocks of the answer are
// concatenated; an answer without text is an error.
func (c *ClaudeClient) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	bodyBytes, err := json.Marshal(request{
		Model:       c.model,
		MaxTokens:   prompt.MaxTokens,
		Temperature: prompt.Temperature,
		System:      prompt.System,
		Messages: []message{
			{Role: "user", Content: prompt.User},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &infra.StatusError{Service: "claude", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if !gjson.ValidBytes(respBody) {
		return "", fmt.Errorf("claude returned malformed JSON")
	}

	var sb strings.Builder
	for _, block := range gjson.GetBytes(respBody, "content").Array() {
		if block.Get("type").String() == "text" || !block.Get("type").Exists() {
			sb.WriteString(block.Get("text").String())
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("claude: %w", domain.ErrEmptyCompletion)
	}
	return text, nil
}
