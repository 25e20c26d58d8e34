package application

import (
	"context"

	"chatbot/internal/domain"
)

// ConfigStore is the durable home of the chatbot configuration.
// Load returns domain.ErrConfigNotFound when nothing has been saved yet.
type ConfigStore interface {
	Load(ctx context.Context) (*domain.Configuration, error)
	Save(ctx context.Context, cfg *domain.Configuration) error
	Close() error
}
