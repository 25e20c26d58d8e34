package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot/internal/application"
	"chatbot/internal/domain"
)

type fakeVoice struct {
	name   domain.VoiceProvider
	prefix string
	err    error
	calls  []string
}

func (f *fakeVoice) Name() domain.VoiceProvider { return f.name }

func (f *fakeVoice) Supports(voice string) bool { return strings.HasPrefix(voice, f.prefix) }

func (f *fakeVoice) Synthesize(_ context.Context, text, voice string) (*domain.Audio, error) {
	f.calls = append(f.calls, voice)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Audio{Data: []byte(text), Format: domain.FormatMP3, Provider: f.name}, nil
}

func TestVoiceRouter_PriorityOrder(t *testing.T) {
	polly := &fakeVoice{name: domain.ProviderPolly, prefix: "polly-", err: domain.ErrProviderNotConfigured}
	bark := &fakeVoice{name: domain.ProviderBark, prefix: "de_speaker"}
	eleven := &fakeVoice{name: domain.ProviderElevenLabs}
	router := application.NewVoiceRouter(discardLogger(), polly, bark, eleven)

	audio, err := router.Synthesize(context.Background(), "Hallo", domain.DefaultVoiceSettings(), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderBark, audio.Provider)
	assert.Equal(t, []string{"polly-hans"}, polly.calls)
	assert.Equal(t, []string{"de_speaker_1"}, bark.calls)
	assert.Empty(t, eleven.calls)
}

func TestVoiceRouter_CustomPriority(t *testing.T) {
	polly := &fakeVoice{name: domain.ProviderPolly}
	eleven := &fakeVoice{name: domain.ProviderElevenLabs}
	router := application.NewVoiceRouter(discardLogger(), polly, eleven)

	settings := domain.VoiceSettings{ElevenLabsVoice: "bella"}
	audio, err := router.Synthesize(context.Background(), "Hallo", settings,
		[]domain.VoiceProvider{"unknown", domain.ProviderElevenLabs, domain.ProviderPolly})
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderElevenLabs, audio.Provider)
	assert.Equal(t, []string{"bella"}, eleven.calls)
	assert.Empty(t, polly.calls)
}

func TestVoiceRouter_BrowserStopsChain(t *testing.T) {
	polly := &fakeVoice{name: domain.ProviderPolly}
	router := application.NewVoiceRouter(discardLogger(), polly)

	_, err := router.Synthesize(context.Background(), "Hallo", domain.DefaultVoiceSettings(),
		[]domain.VoiceProvider{domain.ProviderBrowser, domain.ProviderPolly})
	assert.ErrorIs(t, err, domain.ErrBrowserFallback)
	assert.Empty(t, polly.calls)
}

func TestVoiceRouter_AllProvidersFail(t *testing.T) {
	boom := errors.New("503 from upstream")
	router := application.NewVoiceRouter(discardLogger(),
		&fakeVoice{name: domain.ProviderPolly, err: boom},
		&fakeVoice{name: domain.ProviderBark, err: boom},
	)

	_, err := router.Synthesize(context.Background(), "Hallo", domain.DefaultVoiceSettings(), nil)
	assert.ErrorIs(t, err, domain.ErrBrowserFallback)
	assert.ErrorIs(t, err, boom)
}

func TestVoiceRouter_RejectsEmptyText(t *testing.T) {
	router := application.NewVoiceRouter(discardLogger())
	_, err := router.Synthesize(context.Background(), "  ", domain.DefaultVoiceSettings(), nil)
	assert.Error(t, err)
}

func TestVoiceRouter_Preview(t *testing.T) {
	polly := &fakeVoice{name: domain.ProviderPolly, prefix: "polly-"}
	bark := &fakeVoice{name: domain.ProviderBark, prefix: "de_speaker"}
	eleven := &fakeVoice{name: domain.ProviderElevenLabs, prefix: "rachel"}
	router := application.NewVoiceRouter(discardLogger(), polly, bark, eleven)

	audio, err := router.Preview(context.Background(), "", "de_speaker_2")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderBark, audio.Provider)
	assert.Equal(t, application.DefaultPreviewText, string(audio.Data))

	audio, err = router.Preview(context.Background(), "Test", "charlotte")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderElevenLabs, audio.Provider, "unknown voices go to elevenlabs")

	_, err = router.Preview(context.Background(), "Test", "")
	assert.Error(t, err)
}

func TestVoicePreferences(t *testing.T) {
	settings, priority := application.VoicePreferences(domain.Metadata{})
	assert.Equal(t, domain.DefaultVoiceSettings(), settings)
	assert.Equal(t, domain.DefaultTTSPriority, priority)

	md := domain.Metadata{
		"voiceSettings": map[string]any{
			"selectedVoice": "polly-marlene",
			"barkVoice":     "de_speaker_3",
		},
		"ttsPriority": []any{"ElevenLabs", " polly", "browser"},
	}
	settings, priority = application.VoicePreferences(md)
	assert.Equal(t, "polly-marlene", settings.SelectedVoice)
	assert.Equal(t, "de_speaker_3", settings.BarkVoice)
	assert.Equal(t, "rachel", settings.ElevenLabsVoice)
	assert.Equal(t, []domain.VoiceProvider{domain.ProviderElevenLabs, domain.ProviderPolly, domain.ProviderBrowser}, priority)

	_, priority = application.VoicePreferences(domain.Metadata{"ttsPriority": "polly"})
	assert.Equal(t, domain.DefaultTTSPriority, priority, "malformed priority falls back to defaults")
}
