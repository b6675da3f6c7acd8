package llm

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned on the first call made without a credential.
var ErrMissingAPIKey = errors.New("llm: API key is not configured")

// Provider defines the interface for generative AI providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// GenerateImage sends an image generation request. A response with no
	// images is not an error.
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error)
	// Name returns the name of this provider.
	Name() string
}
