package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chatbot/internal/application"
	"chatbot/internal/domain"
	"chatbot/internal/infra/audio"
)

var (
	speakOut   string
	speakVoice string
	speakPlay  bool
)

var speakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "Synthesize text with the configured voice chain",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSpeak,
}

func init() {
	speakCmd.Flags().StringVar(&speakOut, "out", "./audio", "directory for synthesized clips")
	speakCmd.Flags().StringVar(&speakVoice, "voice", "", "preview a single voice instead of the priority chain")
	speakCmd.Flags().BoolVar(&speakPlay, "play", false, "play through the speaker (needs -tags portaudio)")
}

func runSpeak(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	text := strings.Join(args, " ")

	format := domain.FormatMP3
	if speakPlay {
		format = domain.FormatPCM
	}
	voices, err := newVoiceRouter(ctx, cfg.TTS, format, logger)
	if err != nil {
		return err
	}

	var clip *domain.Audio
	if speakVoice != "" {
		clip, err = voices.Preview(ctx, text, speakVoice)
	} else {
		cfgStore, openErr := openStore(ctx, cfg.Store, logger)
		if openErr != nil {
			return openErr
		}
		defer cfgStore.Close()

		configService := application.NewConfigService(cfgStore, nil, logger)
		if err := configService.Load(ctx); err != nil {
			return err
		}
		settings, priority := application.VoicePreferences(configService.Snapshot().Metadata)
		clip, err = voices.Synthesize(ctx, text, settings, priority)
	}
	if err != nil {
		return fmt.Errorf("synthesizing speech: %w", err)
	}

	if speakPlay {
		speaker := audio.NewSpeaker(domain.PCMSampleRate, logger)
		if err := speaker.Start(ctx); err != nil {
			return err
		}
		defer speaker.Stop()
		return speaker.Play(ctx, clip)
	}

	sink := audio.NewFileSink(speakOut)
	if err := sink.Play(ctx, clip); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %d bytes)\n", sink.LastPath(), clip.Provider, len(clip.Data))
	return nil
}
