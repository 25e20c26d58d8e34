package ttscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"chatbot/internal/application"
	"chatbot/internal/domain"
)

// Synthesizer wraps a provider and remembers rendered audio per voice and
// text. Failures are never cached.
type Synthesizer struct {
	next  application.SpeechSynthesizer
	cache *gocache.Cache
}

func New(next application.SpeechSynthesizer, ttl time.Duration) *Synthesizer {
	return &Synthesizer{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (s *Synthesizer) Name() domain.VoiceProvider {
	return s.next.Name()
}

func (s *Synthesizer) Supports(voice string) bool {
	return s.next.Supports(voice)
}

func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) (*domain.Audio, error) {
	key := cacheKey(s.next.Name(), voice, text)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*domain.Audio), nil
	}

	audio, err := s.next.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, audio)
	return audio, nil
}

// Len reports the number of cached clips, expired ones included.
func (s *Synthesizer) Len() int {
	return s.cache.ItemCount()
}

func cacheKey(provider domain.VoiceProvider, voice, text string) string {
	sum := sha256.Sum256([]byte(string(provider) + "|" + voice + "|" + text))
	return hex.EncodeToString(sum[:])
}
