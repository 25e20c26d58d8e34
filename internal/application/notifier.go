package application

import "context"

// Notifier alerts operators about conditions that need a human, such as a
// configuration change that could not be saved.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

type NoopNotifier struct{}

func (n *NoopNotifier) Notify(_ context.Context, _, _ string) error {
	return nil
}
