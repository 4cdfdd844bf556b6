package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"deepjobsearch/internal/jsonx"
	"deepjobsearch/internal/logging"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAI API compatible client
type openaiClient struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	headers    map[string]string
}

// NewOpenAIClient constructs a client that speaks the OpenAI-compatible chat
// completions API using the provided configuration.
func NewOpenAIClient(config Config) (Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	timeout := 120 * time.Second
	if config.TimeoutSec > 0 {
		timeout = time.Duration(config.TimeoutSec) * time.Second
	}

	return &openaiClient{
		model:      config.Model,
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger("OpenAIClient"),
		headers:    config.Headers,
	}, nil
}

// Model returns the model name used by this client.
func (c *openaiClient) Model() string {
	return c.model
}

func (c *openaiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	oaiReq := map[string]any{
		"model":    c.model,
		"messages": req.Messages,
		"stream":   false,
	}
	if req.Temperature > 0 {
		oaiReq["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		oaiReq["max_tokens"] = req.MaxTokens
	}

	body, err := jsonx.Marshal(oaiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	c.logger.Debug("=== LLM Request ===")
	c.logger.Debug("URL: POST %s", endpoint)
	c.logger.Debug("Model: %s", c.model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("HTTP request failed: %v", err)
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read inference response: %w", err)
	}

	c.logger.Debug("=== LLM Response ===")
	c.logger.Debug("Status: %d %s", resp.StatusCode, resp.Status)

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, respBody)
	}

	var oaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Model string `json:"model"`
		Usage Usage  `json:"usage"`
	}
	if err := jsonx.Unmarshal(respBody, &oaiResp); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}
	if len(oaiResp.Choices) == 0 {
		return nil, fmt.Errorf("inference response contained no choices")
	}

	result := &CompletionResponse{
		Content: oaiResp.Choices[0].Message.Content,
		Model:   oaiResp.Model,
		Usage:   oaiResp.Usage,
	}
	c.logger.Debug("Content length: %d, total tokens: %d", len(result.Content), result.Usage.TotalTokens)
	return result, nil
}

// statusError maps provider HTTP failures to descriptive errors. These are
// fatal at the task level, unlike malformed-but-200 payloads which degrade
// to a soft parse failure upstream.
func statusError(code int, body []byte) error {
	detail := strings.TrimSpace(string(body))
	if len(detail) > 512 {
		detail = detail[:512]
	}
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("inference authentication failed (status %d): %s", code, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("inference rate limited (status %d): %s", code, detail)
	default:
		return fmt.Errorf("inference call failed (status %d): %s", code, detail)
	}
}
