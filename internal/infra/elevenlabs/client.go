package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chatbot/internal/domain"
	"chatbot/internal/infra"
)

const (
	DefaultVoice = "rachel"
	defaultModel = "eleven_multilingual_v2"
)

var voiceIDs = map[string]string{
	"rachel":    "pNInz6obpgDQGcFmaJgB",
	"bella":     "8L2pGqFJfXDy0YKG3Q2R",
	"charlotte": "mTcLxHfAvLYt1v6zFXJc",
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retry      infra.RetryConfig
}

func NewClient(apiKey string) *Client {
	return NewClientWithURL(apiKey, "https://api.elevenlabs.io")
}

func NewClientWithURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      infra.DefaultRetryConfig(),
	}
}

func (c *Client) Name() domain.VoiceProvider {
	return domain.ProviderElevenLabs
}

func (c *Client) Supports(voice string) bool {
	_, ok := voiceIDs[voice]
	return ok
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

func (c *Client) Synthesize(ctx context.Context, text, voice string) (*domain.Audio, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("elevenlabs: %w", domain.ErrProviderNotConfigured)
	}
	voiceID, ok := voiceIDs[voice]
	if !ok {
		voiceID = voiceIDs[DefaultVoice]
	}

	body, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: defaultModel,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var data []byte
	err = infra.WithRetry(ctx, c.retry, func() error {
		var reqErr error
		data, reqErr = c.post(ctx, voiceID, body)
		return reqErr
	})
	if err != nil {
		return nil, err
	}

	return &domain.Audio{Data: data, Format: domain.FormatMP3, Provider: domain.ProviderElevenLabs}, nil
}

func (c *Client) post(ctx context.Context, voiceID string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/text-to-speech/"+voiceID, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &infra.StatusError{Service: "elevenlabs", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, fmt.Errorf("reading audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("elevenlabs returned no audio")
	}
	return data, nil
}
