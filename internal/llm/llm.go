package llm

import (
	"context"
	"errors"
)

// ErrServiceUnavailable is returned by the placeholder when no provider is
// configured. The enhancement engine surfaces it as a per-recommendation
// skip, never as a batch failure.
var ErrServiceUnavailable = errors.New("text generation service unavailable")

// Client generates text for a prompt. Implementations make exactly one
// attempt; retry policy is a caller concern and the engine never retries.
type Client interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}

// PlaceholderClient is used when no provider is configured (dev without keys).
type PlaceholderClient struct{}

// Generate always fails with ErrServiceUnavailable.
func (PlaceholderClient) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	_ = ctx
	_ = prompt
	_ = temperature
	return "", ErrServiceUnavailable
}

var _ Client = PlaceholderClient{}
