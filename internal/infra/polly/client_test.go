package polly_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	awspolly "github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot/internal/domain"
	"chatbot/internal/infra/polly"
)

type fakeAPI struct {
	inputs []*awspolly.SynthesizeSpeechInput
	audio  []byte
	err    error
}

func (f *fakeAPI) SynthesizeSpeech(_ context.Context, params *awspolly.SynthesizeSpeechInput, _ ...func(*awspolly.Options)) (*awspolly.SynthesizeSpeechOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &awspolly.SynthesizeSpeechOutput{AudioStream: io.NopCloser(bytes.NewReader(f.audio))}, nil
}

func TestClient_SynthesizeVoiceMapping(t *testing.T) {
	tests := []struct {
		voice  string
		id     types.VoiceId
		engine types.Engine
	}{
		{"polly-hans", types.VoiceIdHans, types.EngineStandard},
		{"polly-marlene", types.VoiceIdMarlene, types.EngineStandard},
		{"polly-hans-neural", types.VoiceIdHans, types.EngineNeural},
		{"polly-unknown", types.VoiceIdHans, types.EngineStandard},
	}

	for _, tt := range tests {
		t.Run(tt.voice, func(t *testing.T) {
			api := &fakeAPI{audio: []byte("ID3 mp3")}
			client := polly.NewClientWithAPI(api, "")

			audio, err := client.Synthesize(context.Background(), "Hallo Welt", tt.voice)
			require.NoError(t, err)

			assert.Equal(t, domain.FormatMP3, audio.Format)
			assert.Equal(t, domain.ProviderPolly, audio.Provider)
			assert.Equal(t, []byte("ID3 mp3"), audio.Data)

			require.Len(t, api.inputs, 1)
			in := api.inputs[0]
			assert.Equal(t, tt.id, in.VoiceId)
			assert.Equal(t, tt.engine, in.Engine)
			assert.Equal(t, types.LanguageCodeDeDe, in.LanguageCode)
			assert.Equal(t, types.OutputFormatMp3, in.OutputFormat)
			assert.Equal(t, "Hallo Welt", *in.Text)
		})
	}
}

func TestClient_PCMOutput(t *testing.T) {
	api := &fakeAPI{audio: []byte{0, 1, 2, 3}}
	client := polly.NewClientWithAPI(api, domain.FormatPCM)

	audio, err := client.Synthesize(context.Background(), "Hallo", "polly-hans")
	require.NoError(t, err)

	assert.Equal(t, domain.FormatPCM, audio.Format)
	assert.Equal(t, types.OutputFormatPcm, api.inputs[0].OutputFormat)
	assert.Equal(t, "16000", *api.inputs[0].SampleRate)
}

func TestClient_NotConfigured(t *testing.T) {
	client, err := polly.NewClient(context.Background(), polly.Config{})
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), "Hallo", "polly-hans")
	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)
}

func TestClient_APIError(t *testing.T) {
	client := polly.NewClientWithAPI(&fakeAPI{err: errors.New("throttled")}, "")

	_, err := client.Synthesize(context.Background(), "Hallo", "polly-hans")
	assert.ErrorContains(t, err, "throttled")
}

func TestClient_Supports(t *testing.T) {
	client := polly.NewClientWithAPI(&fakeAPI{}, "")
	assert.True(t, client.Supports("polly-marlene"))
	assert.False(t, client.Supports("de_speaker_1"))
}
