package resume

import (
	"context"
	"fmt"

	"deepjobsearch/internal/jsonx"
	"deepjobsearch/internal/llm"
	"deepjobsearch/internal/logging"
	"deepjobsearch/internal/prompts"

	"github.com/kaptinlin/jsonrepair"
)

// Summarizer distills raw resume text into the structured summary the
// deep-search pipeline consumes.
type Summarizer struct {
	llm    llm.Client
	logger *logging.Logger
}

// NewSummarizer creates a summarizer backed by the given inference client.
func NewSummarizer(client llm.Client) *Summarizer {
	return &Summarizer{
		llm:    client,
		logger: logging.NewComponentLogger("Summarizer"),
	}
}

// Summarize runs one synchronous inference call over the resume text. Unlike
// the deep-search pipeline there is no soft-failure path here: an
// unparseable reply is an error, because the summary feeds later requests.
func (s *Summarizer) Summarize(ctx context.Context, text string) (map[string]any, error) {
	resp, err := s.llm.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.ResumeSummarySystem},
			{Role: "user", Content: prompts.ResumeSummary(text)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize resume: %w", err)
	}

	var summary map[string]any
	if err := jsonx.Unmarshal([]byte(resp.Content), &summary); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(resp.Content)
		if repairErr != nil {
			return nil, fmt.Errorf("parse resume summary: %w", err)
		}
		if err := jsonx.Unmarshal([]byte(repaired), &summary); err != nil {
			return nil, fmt.Errorf("parse resume summary: %w", err)
		}
		s.logger.Warn("Resume summary needed JSON repair before parsing")
	}
	return summary, nil
}
