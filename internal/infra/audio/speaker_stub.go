//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"

	"chatbot/internal/domain"
)

// Speaker stub when portaudio is not available
type Speaker struct {
	logger *slog.Logger
}

func NewSpeaker(sampleRate int, logger *slog.Logger) *Speaker {
	return &Speaker{logger: logger}
}

func (s *Speaker) Name() string {
	return "speaker"
}

func (s *Speaker) Start(_ context.Context) error {
	return fmt.Errorf("speaker not available: rebuild with -tags portaudio")
}

func (s *Speaker) Stop() error {
	return nil
}

func (s *Speaker) Play(_ context.Context, clip *domain.Audio) error {
	if clip.Format != domain.FormatPCM {
		return fmt.Errorf("speaker plays pcm only, got %s: %w", clip.Format, domain.ErrUnsupportedFormat)
	}
	return fmt.Errorf("speaker not available")
}
