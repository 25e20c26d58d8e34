package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"chatbot/internal/application"
	"chatbot/internal/domain"
	"chatbot/internal/infra/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat, speech and admin HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	cfgStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer cfgStore.Close()

	configService := application.NewConfigService(cfgStore, newNotifier(cfg.Pushover), logger)
	if err := configService.Load(ctx); err != nil {
		return fmt.Errorf("loading chatbot configuration: %w", err)
	}

	generator, err := newGenerator(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating text generator: %w", err)
	}
	if generator == nil {
		logger.Warn("no llm api key configured, answering from smart fallback only")
	}
	assistant := application.NewAssistant(configService, generator, assistantOptions(cfg.LLM), logger)

	voices, err := newVoiceRouter(ctx, cfg.TTS, domain.FormatMP3, logger)
	if err != nil {
		return err
	}

	server := httpapi.NewServer(httpapi.Options{
		Addr:           cfg.Server.HTTPAddr,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AIEnabled:      generator != nil,
	}, assistant, configService, voices, logger)

	logger.Info("starting chatbot",
		"addr", cfg.Server.HTTPAddr,
		"store", cfg.Store.Driver,
		"llm", cfg.LLM.Provider,
		"ai_enabled", generator != nil,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return server.Stop()
	})
	if cfg.Store.SyncInterval > 0 {
		g.Go(func() error {
			configService.StartPeriodicSync(gctx, cfg.Store.SyncInterval)
			<-gctx.Done()
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
