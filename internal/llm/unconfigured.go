package llm

import "context"

// unconfiguredClient lets the server boot without a credential; every call
// fails with ErrMissingAPIKey and the affected task surfaces a descriptive
// failure instead of the process refusing to start.
type unconfiguredClient struct {
	model string
}

// Unconfigured returns a Client whose calls fail with ErrMissingAPIKey.
func Unconfigured(model string) Client {
	return unconfiguredClient{model: model}
}

func (c unconfiguredClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	return nil, ErrMissingAPIKey
}

func (c unconfiguredClient) Model() string {
	return c.model
}
