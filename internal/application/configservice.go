package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"chatbot/internal/domain"
)

// ConfigService publishes the current configuration snapshot. Readers never
// block. Writers hold mu across store access and the pointer swap, so the
// served snapshot and the stored document change in the same order.
type ConfigService struct {
	store    ConfigStore
	notifier Notifier
	logger   *slog.Logger

	mu      sync.Mutex
	unsaved bool // last Update could not be persisted
	current atomic.Pointer[domain.Configuration]
}

func NewConfigService(store ConfigStore, notifier Notifier, logger *slog.Logger) *ConfigService {
	if notifier == nil {
		notifier = &NoopNotifier{}
	}
	s := &ConfigService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
	empty := domain.NewConfiguration()
	empty.Normalize()
	s.current.Store(empty)
	return s
}

// Snapshot returns the configuration in effect. Callers must not modify it.
func (s *ConfigService) Snapshot() *domain.Configuration {
	return s.current.Load()
}

// Load reads the configuration from the store and publishes it. A missing
// document or a missing default category only produces a warning so the
// service keeps answering in a degraded state.
func (s *ConfigService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsaved {
		s.logger.Warn("serving unsaved configuration, skipping reload from store")
		return nil
	}

	cfg, err := s.store.Load(ctx)
	if errors.Is(err, domain.ErrConfigNotFound) {
		s.logger.Warn("no chatbot configuration stored, using empty configuration")
		cfg = domain.NewConfiguration()
	} else if err != nil {
		return fmt.Errorf("loading chatbot configuration: %w", err)
	}

	if cfg.Normalize() {
		s.logger.Warn("configuration has no default category, substituting an empty one")
	}

	s.current.Store(cfg)

	s.logger.Info("chatbot configuration loaded",
		"business", cfg.Metadata.BusinessName(),
		"categories", cfg.Categories.Len(),
		"patterns", cfg.SmartPatterns.Len(),
	)
	return nil
}

// Update replaces the categories wholesale (when non-nil), merges metadata,
// publishes the result and persists it. On a save failure the new snapshot
// stays in effect and the returned error wraps domain.ErrPersistFailed.
func (s *ConfigService) Update(ctx context.Context, categories *domain.Categories, metadata domain.Metadata) (*domain.Configuration, error) {
	s.mu.Lock()
	prev := s.current.Load()
	next := &domain.Configuration{
		Metadata:      prev.Metadata.Merge(metadata),
		Categories:    prev.Categories,
		SmartPatterns: prev.SmartPatterns,
	}
	if categories != nil {
		next.Categories = categories.Clone()
	}
	if next.Normalize() {
		s.logger.Warn("updated categories have no default, substituting an empty one")
	}
	s.current.Store(next)
	err := s.store.Save(ctx, next)
	s.unsaved = err != nil
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("persisting configuration failed, serving unsaved changes", "error", err)
		if notifyErr := s.notifier.Notify(ctx, "Chatbot config not saved", err.Error()); notifyErr != nil {
			s.logger.Error("notifying save failure", "error", notifyErr)
		}
		return next, fmt.Errorf("%w: %w", domain.ErrPersistFailed, err)
	}

	s.logger.Info("chatbot configuration saved", "categories", next.Categories.Len())
	return next, nil
}

func (s *ConfigService) ReplaceCategories(ctx context.Context, categories *domain.Categories) error {
	if categories == nil {
		return fmt.Errorf("categories are required")
	}
	_, err := s.Update(ctx, categories, nil)
	return err
}

func (s *ConfigService) MergeMetadata(ctx context.Context, metadata domain.Metadata) error {
	_, err := s.Update(ctx, nil, metadata)
	return err
}

// StartPeriodicSync reloads from the store every interval until ctx is done,
// picking up edits made by other replicas or by hand.
func (s *ConfigService) StartPeriodicSync(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Load(ctx); err != nil {
					s.logger.Warn("periodic configuration sync failed", "error", err)
				}
			}
		}
	}()
}
