package bark

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

const DefaultVoice = "de_speaker_1"

var voices = map[string]bool{
	"de_speaker_1": true,
	"de_speaker_2": true,
	"de_speaker_3": true,
}

// State is a step of one prediction job.
type State string

const (
	StateSubmitted State = "submitted"
	StatePolling   State = "polling"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateTimedOut  State = "timed-out"
)

type Config struct {
	APIKey       string
	BaseURL      string
	PollInterval time.Duration
	MaxPolls     int
}

// Client synthesizes speech with Suno Bark hosted on Replicate. Predictions
// are asynchronous, so every call runs a bounded submit/poll/download job.
type Client struct {
	apiKey       string
	baseURL      string
	pollInterval time.Duration
	maxPolls     int
	httpClient   *http.Client
	retry        infra.RetryConfig
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.replicate.com/v1"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = 60
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		pollInterval: cfg.PollInterval,
		maxPolls:     cfg.MaxPolls,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		retry:        infra.DefaultRetryConfig(),
	}
}

func (c *Client) Name() domain.VoiceProvider {
	return domain.ProviderBark
}

func (c *Client) Supports(voice string) bool {
	return strings.HasPrefix(voice, "de_speaker")
}

// job tracks one prediction through its states.
type job struct {
	id       string
	state    State
	polls    int
	audioURL string
	detail   string
}

func (c *Client) Synthesize(ctx context.Context, text, voice string) (*domain.Audio, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("bark: %w", domain.ErrProviderNotConfigured)
	}
	if !voices[voice] {
		voice = DefaultVoice
	}

	j, err := c.submit(ctx, text, voice)
	if err != nil {
		return nil, err
	}

	for j.state == StateSubmitted || j.state == StatePolling {
		if j.polls >= c.maxPolls {
			j.state = StateTimedOut
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
		if err := c.poll(ctx, j); err != nil {
			return nil, err
		}
	}

	switch j.state {
	case StateSucceeded:
	case StateTimedOut:
		return nil, fmt.Errorf("bark prediction %s timed out after %d polls", j.id, j.polls)
	default:
		return nil, fmt.Errorf("bark prediction %s failed: %s", j.id, j.detail)
	}

	data, err := c.download(ctx, j.audioURL)
	if err != nil {
		return nil, err
	}
	return &domain.Audio{Data: data, Format: domain.FormatWAV, Provider: domain.ProviderBark}, nil
}

type predictionRequest struct {
	Model string          `json:"model"`
	Input predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt        string  `json:"prompt"`
	HistoryPrompt string  `json:"history_prompt"`
	TextTemp      float64 `json:"text_temp"`
	WaveformTemp  float64 `json:"waveform_temp"`
}

func (c *Client) submit(ctx context.Context, text, voice string) (*job, error) {
	body, err := json.Marshal(predictionRequest{
		Model: "suno-ai/bark",
		Input: predictionInput{
			Prompt:        text,
			HistoryPrompt: voice,
			TextTemp:      0.7,
			WaveformTemp:  0.5,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling prediction: %w", err)
	}

	var result gjson.Result
	err = infra.WithRetry(ctx, c.retry, func() error {
		var reqErr error
		result, reqErr = c.doJSON(ctx, http.MethodPost, c.baseURL+"/predictions", body)
		return reqErr
	})
	if err != nil {
		return nil, fmt.Errorf("creating bark prediction: %w", err)
	}

	j := &job{id: result.Get("id").String(), state: StateSubmitted}
	if j.id == "" {
		return nil, fmt.Errorf("bark prediction has no id")
	}
	j.apply(result)
	return j, nil
}

func (c *Client) poll(ctx context.Context, j *job) error {
	result, err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/predictions/"+j.id, nil)
	if err != nil {
		return fmt.Errorf("polling bark prediction %s: %w", j.id, err)
	}
	j.polls++
	j.apply(result)
	return nil
}

// apply moves the job according to the remote prediction status.
func (j *job) apply(prediction gjson.Result) {
	switch prediction.Get("status").String() {
	case "starting", "processing":
		j.state = StatePolling
	case "succeeded":
		j.audioURL = outputURL(prediction.Get("output"))
		if j.audioURL == "" {
			j.state = StateFailed
			j.detail = "no audio in output"
			return
		}
		j.state = StateSucceeded
	default:
		j.state = StateFailed
		j.detail = prediction.Get("status").String()
		if e := prediction.Get("error").String(); e != "" {
			j.detail += ": " + e
		}
	}
}

// outputURL accepts both a bare URL and an object with an audio_out field.
func outputURL(output gjson.Result) string {
	if output.Type == gjson.String {
		return output.String()
	}
	return output.Get("audio_out").String()
}

func (c *Client) doJSON(ctx context.Context, method, url string, body []byte) (gjson.Result, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gjson.Result{}, &infra.StatusError{Service: "replicate", StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if !gjson.ValidBytes(respBody) {
		return gjson.Result{}, fmt.Errorf("replicate returned malformed JSON")
	}
	return gjson.ParseBytes(respBody), nil
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := infra.WithRetry(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("downloading audio: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &infra.StatusError{Service: "replicate delivery", StatusCode: resp.StatusCode, Body: string(respBody)}
		}

		data, err = io.ReadAll(io.LimitReader(resp.Body, 20<<20))
		if err != nil {
			return fmt.Errorf("reading audio: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("bark audio is empty")
	}
	return data, nil
}
