// Package llmtest provides a scriptable llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/omnidive/omnidive/internal/llm"
)

// MockProvider records calls and answers from the configured funcs, or from
// the canned Response/ImageResponse when a func is nil.
type MockProvider struct {
	mu            sync.Mutex
	Calls         []llm.CompletionRequest
	ImageCalls    []llm.ImageRequest
	Response      *llm.CompletionResponse
	ImageResponse *llm.ImageResponse
	Err           error
	ImageErr      error
	CompleteFunc  func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
	ImageFunc     func(ctx context.Context, req llm.ImageRequest) (*llm.ImageResponse, error)
	ProvName      string
}

// NewMockProvider returns a mock that answers "mock response" and no images.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &llm.CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
		ImageResponse: &llm.ImageResponse{Model: "mock-image-model"},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	fn, resp, err := m.CompleteFunc, m.Response, m.Err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (m *MockProvider) GenerateImage(ctx context.Context, req llm.ImageRequest) (*llm.ImageResponse, error) {
	m.mu.Lock()
	m.ImageCalls = append(m.ImageCalls, req)
	fn, resp, err := m.ImageFunc, m.ImageResponse, m.ImageErr
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CallCount returns the number of Complete calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// ImageCallCount returns the number of GenerateImage calls.
func (m *MockProvider) ImageCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ImageCalls)
}
