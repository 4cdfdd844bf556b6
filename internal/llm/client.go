package llm

import (
	"context"
	"errors"
)

// Message is a single chat message sent to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest contains all parameters for a chat completion.
type CompletionRequest struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Usage reports token accounting from the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the provider's reply.
type CompletionResponse struct {
	Content string
	Model   string
	Usage   Usage
}

// Client represents any chat-completion provider.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Model() string
}

// Config holds provider connection settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	TimeoutSec int
	Headers    map[string]string
}

// ErrMissingAPIKey indicates the provider credential was not configured.
var ErrMissingAPIKey = errors.New("inference API key is not configured")
