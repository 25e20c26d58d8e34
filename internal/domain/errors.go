package domain

import "errors"

var (
	ErrEmptyMessage          = errors.New("message is required")
	ErrConfigNotFound        = errors.New("chatbot configuration not found")
	ErrPersistFailed         = errors.New("saving chatbot configuration")
	ErrEmptyCompletion       = errors.New("empty completion")
	ErrGeneratorDisabled     = errors.New("text generation not configured")
	ErrProviderNotConfigured = errors.New("voice provider not configured")
	ErrBrowserFallback       = errors.New("no server voice available, use browser tts")
	ErrUnsupportedFormat     = errors.New("unsupported audio format")
)
