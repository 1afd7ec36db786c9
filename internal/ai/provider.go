package ai

import "context"

// Request contains text generation parameters
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
	JSONMode    bool
}

// Completion contains the generation result
type Completion struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for AI providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete generates a text completion
	Complete(ctx context.Context, req Request, model string) (*Completion, error)
}

// Transcriber converts recorded audio into text. Only providers with
// native audio input implement it.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (*Completion, error)
}
