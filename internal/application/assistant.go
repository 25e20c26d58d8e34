package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatbot/internal/domain"
)

const replyVersion = "3.0"

type AssistantOptions struct {
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
	Language    string
}

func DefaultAssistantOptions() AssistantOptions {
	return AssistantOptions{
		Timeout:     20 * time.Second,
		Temperature: 0.7,
		MaxTokens:   500,
		Language:    "Deutsch",
	}
}

// Assistant answers chat messages. The language model is tried once; any
// failure there is answered by the smart fallback instead.
type Assistant struct {
	config    *ConfigService
	generator TextGenerator
	opts      AssistantOptions
	logger    *slog.Logger
	now       func() time.Time
}

func NewAssistant(config *ConfigService, generator TextGenerator, opts AssistantOptions, logger *slog.Logger) *Assistant {
	if generator == nil {
		generator = DisabledGenerator{}
	}
	defaults := DefaultAssistantOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaults.MaxTokens
	}
	if opts.Language == "" {
		opts.Language = defaults.Language
	}
	return &Assistant{
		config:    config,
		generator: generator,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

func (a *Assistant) Reply(ctx context.Context, message string) (*domain.Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrEmptyMessage
	}

	cfg := a.config.Snapshot()
	match := MatchCategory(message, cfg.Categories)
	a.logger.Info("matched category", "message_length", len(message), "category", match.Key, "score", match.Score)
	a.logger.Debug("customer message", "message", message)

	reply := &domain.Reply{
		ID:        uuid.NewString(),
		Timestamp: a.now(),
		Version:   replyVersion,
	}

	text, err := a.generate(ctx, cfg, match.Key, message)
	if err != nil {
		a.logger.Warn("text generation failed, using smart fallback", "error", err)

		key := BestCategory(message, cfg.Categories)
		reply.Category = key
		reply.Suggestions = suggestionsFor(cfg, key)
		reply.Mode = domain.ModeSmartFallback
		html, tier := smartResponse(message, key, categoryPtr(cfg, key), cfg)
		reply.HTML = html
		a.logger.Info("smart fallback reply", "category", key, "tier", tier)
		return reply, nil
	}

	reply.Category = match.Key
	reply.Suggestions = suggestionsFor(cfg, match.Key)
	reply.Mode = domain.ModeAIPowered
	reply.Model = a.generator.Model()
	reply.HTML = FormatAsHTML(text)
	return reply, nil
}

func (a *Assistant) generate(ctx context.Context, cfg *domain.Configuration, categoryKey, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	text, err := a.generator.Generate(ctx, domain.Prompt{
		System:      a.systemPrompt(cfg, contextFor(cfg, categoryKey)),
		User:        message,
		Temperature: a.opts.Temperature,
		MaxTokens:   a.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyCompletion
	}
	return text, nil
}

func (a *Assistant) systemPrompt(cfg *domain.Configuration, contextInfo string) string {
	name := cfg.Metadata.BusinessName()
	return fmt.Sprintf(`Du bist ein hilfreicher Kundenservice-Assistent für %s.

Geschäftsinformationen:
- Business: %s
- E-Mail: %s
- Sprache: %s

Kontext zur Frage:
%s

Regeln:
- Antworte kurz, präzise und freundlich auf %s
- Nutze die Kontextinformationen oben für deine Antwort
- Verwende Emojis sparsam (max. 1-2)
- Bei technischen Fragen: biete konkrete Lösungen
- Bei Preisfragen: verweise auf die Kontaktmöglichkeiten`,
		name, name, cfg.Metadata.BusinessEmail(), a.opts.Language, contextInfo, a.opts.Language)
}

func contextFor(cfg *domain.Configuration, key string) string {
	if cat, ok := cfg.Categories.Get(key); ok && cat.Response != "" {
		return cat.Response
	}
	return cfg.DefaultCategory().Response
}

func suggestionsFor(cfg *domain.Configuration, key string) []string {
	if cat, ok := cfg.Categories.Get(key); ok && len(cat.FollowUp) > 0 {
		return cat.FollowUp
	}
	if def := cfg.DefaultCategory(); len(def.FollowUp) > 0 {
		return def.FollowUp
	}
	return []string{}
}

func categoryPtr(cfg *domain.Configuration, key string) *domain.Category {
	cat, ok := cfg.Categories.Get(key)
	if !ok {
		return nil
	}
	return &cat
}
