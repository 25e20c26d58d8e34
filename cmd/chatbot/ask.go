package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chatbot/internal/application"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Answer one message from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	configService := application.NewConfigService(cfgStore, nil, logger)
	if err := configService.Load(ctx); err != nil {
		return err
	}

	generator, err := newGenerator(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating text generator: %w", err)
	}
	assistant := application.NewAssistant(configService, generator, assistantOptions(cfg.LLM), logger)

	reply, err := assistant.Reply(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "[%s] category=%s\n", reply.Mode, reply.Category)
	fmt.Fprintln(out, reply.HTML)
	for _, s := range reply.Suggestions {
		fmt.Fprintln(out, "  ->", s)
	}
	return nil
}
