package llm

import (
	"context"
	"sync"
	"time"
)

// MockClient implements Client for testing.
type MockClient struct {
	Response string
	Err      error
	Delay    time.Duration

	mu    sync.Mutex
	calls []CompletionRequest
}

// Complete returns the canned response after the configured delay.
func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	return &CompletionResponse{
		Content: m.Response,
		Model:   m.Model(),
		Usage:   Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil
}

// Model returns a fixed model name.
func (m *MockClient) Model() string {
	return "mock-model"
}

// Calls returns the requests seen so far.
func (m *MockClient) Calls() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CompletionRequest(nil), m.calls...)
}
