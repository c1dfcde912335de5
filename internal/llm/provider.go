package llm

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned when no key is configured or supplied.
var ErrMissingAPIKey = errors.New("openai api key missing")

// CompletionRequest is a two-turn prompt: a system/developer instruction and a user message.
// Temperature and MaxTokens are optional; zero values leave the provider default.
type CompletionRequest struct {
	System      string
	User        string
	Model       string
	Temperature *float32
	MaxTokens   int
}

// Stream yields completion fragments in arrival order.
// Recv returns io.EOF once the upstream stream has ended.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Provider is the text completion capability used by the services.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	CompleteStream(ctx context.Context, req CompletionRequest) (Stream, error)
}

// Factory builds a Provider for an API key. An empty key selects the configured default.
type Factory func(apiKey string) (Provider, error)
