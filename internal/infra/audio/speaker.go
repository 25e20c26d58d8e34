//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"

	"chatbot/internal/domain"
)

const framesPerBuffer = 1024

// Speaker plays PCM clips on the default output device.
type Speaker struct {
	sampleRate int
	logger     *slog.Logger

	mu     sync.Mutex
	stream *portaudio.Stream
	buffer []int16
}

func NewSpeaker(sampleRate int, logger *slog.Logger) *Speaker {
	return &Speaker{
		sampleRate: sampleRate,
		logger:     logger,
		buffer:     make([]int16, framesPerBuffer),
	}
}

func (s *Speaker) Name() string {
	return "speaker"
}

func (s *Speaker) Start(_ context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}

	inputChannels := 0
	outputChannels := 1

	stream, err := portaudio.OpenDefaultStream(
		inputChannels,
		outputChannels,
		float64(s.sampleRate),
		framesPerBuffer,
		s.buffer,
	)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("opening stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("starting stream: %w", err)
	}

	s.stream = stream
	s.logger.Info("speaker started", "sampleRate", s.sampleRate)
	return nil
}

func (s *Speaker) Stop() error {
	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
	}
	portaudio.Terminate()
	return nil
}

func (s *Speaker) Play(ctx context.Context, clip *domain.Audio) error {
	if clip.Format != domain.FormatPCM {
		return fmt.Errorf("speaker plays pcm only, got %s: %w", clip.Format, domain.ErrUnsupportedFormat)
	}
	if s.stream == nil {
		return fmt.Errorf("speaker not started")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	samples := pcmSamples(clip.Data)
	for off := 0; off < len(samples); off += framesPerBuffer {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n := copy(s.buffer, samples[off:])
		for i := n; i < len(s.buffer); i++ {
			s.buffer[i] = 0
		}
		if err := s.stream.Write(); err != nil {
			return fmt.Errorf("writing to stream: %w", err)
		}
	}
	return nil
}
