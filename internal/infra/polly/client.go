package polly

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"chatbot/internal/domain"
)

const DefaultVoice = "polly-hans"

type voiceConfig struct {
	id     types.VoiceId
	engine types.Engine
}

var voices = map[string]voiceConfig{
	"polly-hans":        {id: types.VoiceIdHans, engine: types.EngineStandard},
	"polly-marlene":     {id: types.VoiceIdMarlene, engine: types.EngineStandard},
	"polly-hans-neural": {id: types.VoiceIdHans, engine: types.EngineNeural},
}

// SpeechAPI is the subset of the Polly SDK client used here.
type SpeechAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// UseDefaultCredentials resolves credentials through the SDK default
	// chain (env, shared config, instance role) instead of static keys.
	UseDefaultCredentials bool
	// Format is mp3 for the web client or pcm for local playback.
	Format domain.AudioFormat
}

type Client struct {
	api    SpeechAPI
	format domain.AudioFormat
}

// NewClient builds a Polly client. Without credentials it returns a client
// whose Synthesize reports domain.ErrProviderNotConfigured.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Format == "" {
		cfg.Format = domain.FormatMP3
	}
	if cfg.Region == "" {
		cfg.Region = "eu-west-1"
	}
	if cfg.AccessKeyID == "" && !cfg.UseDefaultCredentials {
		return &Client{format: cfg.Format}, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return NewClientWithAPI(polly.NewFromConfig(awsCfg), cfg.Format), nil
}

func NewClientWithAPI(api SpeechAPI, format domain.AudioFormat) *Client {
	if format == "" {
		format = domain.FormatMP3
	}
	return &Client{api: api, format: format}
}

func (c *Client) Name() domain.VoiceProvider {
	return domain.ProviderPolly
}

func (c *Client) Supports(voice string) bool {
	return strings.HasPrefix(voice, "polly-")
}

func (c *Client) Synthesize(ctx context.Context, text, voice string) (*domain.Audio, error) {
	if c.api == nil {
		return nil, fmt.Errorf("polly: %w", domain.ErrProviderNotConfigured)
	}

	vc, ok := voices[voice]
	if !ok {
		vc = voices[DefaultVoice]
	}

	input := &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		VoiceId:      vc.id,
		Engine:       vc.engine,
		LanguageCode: types.LanguageCodeDeDe,
		OutputFormat: types.OutputFormatMp3,
	}
	if c.format == domain.FormatPCM {
		input.OutputFormat = types.OutputFormatPcm
		input.SampleRate = aws.String(strconv.Itoa(domain.PCMSampleRate))
	}

	out, err := c.api.SynthesizeSpeech(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("polly synthesize: %w", err)
	}
	defer out.AudioStream.Close()

	data, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("reading polly audio stream: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("polly returned no audio")
	}

	return &domain.Audio{Data: data, Format: c.format, Provider: domain.ProviderPolly}, nil
}
