package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mitchellh/mapstructure"

	"chatbot/internal/domain"
)

// DefaultPreviewText is spoken by voice previews when no text is given.
const DefaultPreviewText = "Das ist eine Sprachprobe. Hallo, ich bin ein Sprachassistent."

// SpeechSynthesizer turns text into audio with one provider.
type SpeechSynthesizer interface {
	Name() domain.VoiceProvider
	// Supports reports whether voice is one of this provider's voice names.
	Supports(voice string) bool
	Synthesize(ctx context.Context, text, voice string) (*domain.Audio, error)
}

// VoiceRouter tries the registered providers in priority order until one
// produces audio.
type VoiceRouter struct {
	providers map[domain.VoiceProvider]SpeechSynthesizer
	fallback  domain.VoiceProvider
	logger    *slog.Logger
}

func NewVoiceRouter(logger *slog.Logger, providers ...SpeechSynthesizer) *VoiceRouter {
	r := &VoiceRouter{
		providers: make(map[domain.VoiceProvider]SpeechSynthesizer, len(providers)),
		fallback:  domain.ProviderElevenLabs,
		logger:    logger,
	}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *VoiceRouter) Provider(name domain.VoiceProvider) (SpeechSynthesizer, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Synthesize walks priority and returns the first audio produced. Reaching
// the browser entry, or running out of providers, yields
// domain.ErrBrowserFallback so the client speaks the text itself.
func (r *VoiceRouter) Synthesize(ctx context.Context, text string, settings domain.VoiceSettings, priority []domain.VoiceProvider) (*domain.Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is required")
	}
	if len(priority) == 0 {
		priority = domain.DefaultTTSPriority
	}

	var errs []error
	for _, name := range priority {
		if name == domain.ProviderBrowser {
			break
		}
		p, ok := r.providers[name]
		if !ok {
			r.logger.Debug("skipping unregistered voice provider", "provider", name)
			continue
		}

		audio, err := p.Synthesize(ctx, text, settings.VoiceFor(name))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("voice provider failed", "provider", name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		r.logger.Info("synthesized speech", "provider", name, "bytes", len(audio.Data))
		return audio, nil
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrBrowserFallback, errors.Join(errs...))
	}
	return nil, domain.ErrBrowserFallback
}

// Preview speaks text with one specific voice, routed to the provider that
// owns the voice name.
func (r *VoiceRouter) Preview(ctx context.Context, text, voice string) (*domain.Audio, error) {
	if voice == "" {
		return nil, fmt.Errorf("voice is required")
	}
	if text == "" {
		text = DefaultPreviewText
	}

	p := r.ownerOf(voice)
	if p == nil {
		return nil, fmt.Errorf("%w: no provider for voice %q", domain.ErrProviderNotConfigured, voice)
	}
	return p.Synthesize(ctx, text, voice)
}

func (r *VoiceRouter) ownerOf(voice string) SpeechSynthesizer {
	for _, name := range domain.DefaultTTSPriority {
		if p, ok := r.providers[name]; ok && p.Supports(voice) {
			return p
		}
	}
	return r.providers[r.fallback]
}

// VoicePreferences reads voiceSettings and ttsPriority from metadata,
// falling back to defaults for anything missing or malformed.
func VoicePreferences(md domain.Metadata) (domain.VoiceSettings, []domain.VoiceProvider) {
	settings := domain.DefaultVoiceSettings()
	if raw, ok := md["voiceSettings"]; ok && raw != nil {
		var decoded domain.VoiceSettings
		if err := mapstructure.Decode(raw, &decoded); err == nil {
			if decoded.SelectedVoice != "" {
				settings.SelectedVoice = decoded.SelectedVoice
			}
			if decoded.BarkVoice != "" {
				settings.BarkVoice = decoded.BarkVoice
			}
			if decoded.ElevenLabsVoice != "" {
				settings.ElevenLabsVoice = decoded.ElevenLabsVoice
			}
		}
	}

	priority := domain.DefaultTTSPriority
	if raw, ok := md["ttsPriority"]; ok && raw != nil {
		var names []string
		if err := mapstructure.Decode(raw, &names); err == nil && len(names) > 0 {
			priority = make([]domain.VoiceProvider, 0, len(names))
			for _, n := range names {
				priority = append(priority, domain.VoiceProvider(strings.ToLower(strings.TrimSpace(n))))
			}
		}
	}

	return settings, priority
}
