package application

import (
	"context"

	"chatbot/internal/domain"
)

type TextGenerator interface {
	Generate(ctx context.Context, prompt domain.Prompt) (string, error)
	Model() string
}

// DisabledGenerator stands in when no language model is configured. Every
// call fails, so replies always come from the smart fallback.
type DisabledGenerator struct{}

func (DisabledGenerator) Generate(_ context.Context, _ domain.Prompt) (string, error) {
	return "", domain.ErrGeneratorDisabled
}

func (DisabledGenerator) Model() string {
	return ""
}
