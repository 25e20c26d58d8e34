package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"chatbot/internal/application"
	"chatbot/internal/domain"
)

// Seed copies the JSON document at seedPath into an empty store. A store that
// already holds a configuration is left untouched.
func Seed(ctx context.Context, dst application.ConfigStore, seedPath string, logger *slog.Logger) error {
	if seedPath == "" {
		return nil
	}
	_, err := dst.Load(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrConfigNotFound) {
		return err
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}
	cfg, err := decode(data)
	if err != nil {
		return fmt.Errorf("seed file %s: %w", seedPath, err)
	}
	if err := dst.Save(ctx, cfg); err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}

	count := 0
	if cfg.Categories != nil {
		count = cfg.Categories.Len()
	}
	logger.Info("seeded configuration store", "seed_file", seedPath, "categories", count)
	return nil
}
