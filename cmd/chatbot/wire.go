package main

import (
	"context"
	"fmt"
	"log/slog"

	"chatbot/config"
	"chatbot/internal/application"
	"chatbot/internal/domain"
	"chatbot/internal/infra/anthropic"
	"chatbot/internal/infra/bark"
	"chatbot/internal/infra/elevenlabs"
	"chatbot/internal/infra/gemini"
	"chatbot/internal/infra/groq"
	"chatbot/internal/infra/polly"
	"chatbot/internal/infra/pushover"
	"chatbot/internal/infra/store"
	"chatbot/internal/infra/ttscache"
)

func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (application.ConfigStore, error) {
	var (
		s   application.ConfigStore
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		s, err = store.NewSQLiteStore(cfg.Path)
	case "redis":
		s, err = store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisKey)
	default:
		s = store.NewFileStore(cfg.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Driver, err)
	}

	if err := store.Seed(ctx, s, cfg.SeedFile, logger); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func newNotifier(cfg config.PushoverConfig) application.Notifier {
	if !cfg.Enabled {
		return &application.NoopNotifier{}
	}
	return pushover.NewClient(cfg.Token, cfg.UserKey)
}

// newGenerator returns nil when no key is configured; the assistant then
// answers from the smart fallback only.
func newGenerator(ctx context.Context, cfg config.LLMConfig) (application.TextGenerator, error) {
	if cfg.Provider == "none" || cfg.APIKey == "" {
		return nil, nil
	}
	switch cfg.Provider {
	case "anthropic":
		if cfg.BaseURL != "" {
			return anthropic.NewClaudeClientWithURL(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
		}
		return anthropic.NewClaudeClient(cfg.APIKey, cfg.Model), nil
	case "gemini":
		if cfg.BaseURL != "" {
			return gemini.NewClientWithURL(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
		}
		return gemini.NewClient(ctx, cfg.APIKey, cfg.Model)
	default:
		if cfg.BaseURL != "" {
			return groq.NewClientWithURL(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
		}
		return groq.NewClient(cfg.APIKey, cfg.Model), nil
	}
}

// newVoiceRouter registers every voice provider. Providers without
// credentials stay registered and decline, so the chain moves on.
func newVoiceRouter(ctx context.Context, cfg config.TTSConfig, format domain.AudioFormat, logger *slog.Logger) (*application.VoiceRouter, error) {
	pollyClient, err := polly.NewClient(ctx, polly.Config{
		Region:                cfg.Polly.Region,
		AccessKeyID:           cfg.Polly.AccessKeyID,
		SecretAccessKey:       cfg.Polly.SecretAccessKey,
		UseDefaultCredentials: cfg.Polly.UseDefaultCredentials,
		Format:                format,
	})
	if err != nil {
		return nil, fmt.Errorf("creating polly client: %w", err)
	}

	providers := []application.SpeechSynthesizer{
		pollyClient,
		bark.NewClient(bark.Config{
			APIKey:       cfg.Bark.APIToken,
			PollInterval: cfg.Bark.PollInterval,
			MaxPolls:     cfg.Bark.MaxPolls,
		}),
		elevenlabs.NewClient(cfg.ElevenLabs.APIKey),
	}
	if cfg.CacheTTL > 0 {
		for i, p := range providers {
			providers[i] = ttscache.New(p, cfg.CacheTTL)
		}
	}
	return application.NewVoiceRouter(logger, providers...), nil
}

func assistantOptions(cfg config.LLMConfig) application.AssistantOptions {
	opts := application.DefaultAssistantOptions()
	opts.Timeout = cfg.Timeout
	opts.Temperature = cfg.Temperature
	opts.MaxTokens = cfg.MaxTokens
	opts.Language = cfg.Language
	return opts
}
