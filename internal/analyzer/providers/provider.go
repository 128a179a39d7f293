// Package providers contains inference backend client implementations
package providers

import (
	"context"
)

// GenerateRequest is a single-shot text generation request
type GenerateRequest struct {
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// ModelInfo describes an available model
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Provider defines the interface for inference backends
type Provider interface {
	// Generate produces a completion for the request
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// TestConnection validates connectivity and credentials
	TestConnection(ctx context.Context) error

	// Name returns the provider name
	Name() string
}
