package domain

type VoiceProvider string

const (
	ProviderPolly      VoiceProvider = "polly"
	ProviderBark       VoiceProvider = "bark"
	ProviderElevenLabs VoiceProvider = "elevenlabs"
	// ProviderBrowser is synthesized client-side; the server only signals it.
	ProviderBrowser VoiceProvider = "browser"
)

// DefaultTTSPriority is used when metadata carries no ttsPriority list.
var DefaultTTSPriority = []VoiceProvider{ProviderPolly, ProviderBark, ProviderElevenLabs, ProviderBrowser}

// VoiceSettings selects the voice each provider speaks with.
type VoiceSettings struct {
	SelectedVoice   string `json:"selectedVoice" mapstructure:"selectedVoice"`
	BarkVoice       string `json:"barkVoice" mapstructure:"barkVoice"`
	ElevenLabsVoice string `json:"elevenLabsVoice" mapstructure:"elevenLabsVoice"`
}

func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		SelectedVoice:   "polly-hans",
		BarkVoice:       "de_speaker_1",
		ElevenLabsVoice: "rachel",
	}
}

// VoiceFor returns the configured voice for provider.
func (s VoiceSettings) VoiceFor(provider VoiceProvider) string {
	switch provider {
	case ProviderPolly:
		return s.SelectedVoice
	case ProviderBark:
		return s.BarkVoice
	case ProviderElevenLabs:
		return s.ElevenLabsVoice
	default:
		return ""
	}
}

type AudioFormat string

const (
	FormatMP3 AudioFormat = "mp3"
	FormatWAV AudioFormat = "wav"
	// FormatPCM is signed 16-bit little-endian mono at PCMSampleRate.
	FormatPCM AudioFormat = "pcm"
)

const PCMSampleRate = 16000

func (f AudioFormat) MIMEType() string {
	switch f {
	case FormatWAV:
		return "audio/wav"
	case FormatPCM:
		return "audio/L16"
	default:
		return "audio/mpeg"
	}
}

type Audio struct {
	Data     []byte
	Format   AudioFormat
	Provider VoiceProvider
}
