package elevenlabs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot/internal/domain"
	"chatbot/internal/infra"
	"chatbot/internal/infra/elevenlabs"
)

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/8L2pGqFJfXDy0YKG3Q2R", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))
		assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Guten Tag", req["text"])
		assert.Equal(t, "eleven_multilingual_v2", req["model_id"])
		assert.Equal(t, map[string]any{"stability": 0.5, "similarity_boost": 0.75}, req["voice_settings"])

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-mp3"))
	}))
	defer srv.Close()

	client := elevenlabs.NewClientWithURL("test-key", srv.URL)
	audio, err := client.Synthesize(context.Background(), "Guten Tag", "bella")
	require.NoError(t, err)

	assert.Equal(t, []byte("ID3-mp3"), audio.Data)
	assert.Equal(t, domain.FormatMP3, audio.Format)
	assert.Equal(t, domain.ProviderElevenLabs, audio.Provider)
}

func TestSynthesize_UnknownVoiceUsesDefault(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	_, err := elevenlabs.NewClientWithURL("k", srv.URL).Synthesize(context.Background(), "Hallo", "nobody")
	require.NoError(t, err)
	assert.Equal(t, "/v1/text-to-speech/pNInz6obpgDQGcFmaJgB", path)
}

func TestSynthesize_Unauthorized(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "invalid key"}`))
	}))
	defer srv.Close()

	_, err := elevenlabs.NewClientWithURL("bad", srv.URL).Synthesize(context.Background(), "Hallo", "rachel")

	var statusErr *infra.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, 1, calls, "client errors are not retried")
}

func TestSynthesize_NotConfigured(t *testing.T) {
	_, err := elevenlabs.NewClient("").Synthesize(context.Background(), "Hallo", "rachel")
	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)
}

func TestSupports(t *testing.T) {
	c := elevenlabs.NewClient("k")
	assert.True(t, c.Supports("charlotte"))
	assert.False(t, c.Supports("polly-hans"))
}
