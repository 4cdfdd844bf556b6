package resume

import (
	"context"
	"errors"
	"testing"

	"deepjobsearch/internal/llm"
)

func TestSummarizer_Summarize(t *testing.T) {
	mock := &llm.MockClient{Response: `{"skills": ["go"], "summary": "Go engineer"}`}
	summarizer := NewSummarizer(mock)

	summary, err := summarizer.Summarize(context.Background(), "Jane Doe, Go engineer")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary["summary"] != "Go engineer" {
		t.Errorf("Unexpected summary: %v", summary)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("Expected one inference call, got %d", len(calls))
	}
}

func TestSummarizer_RepairsAlmostJSON(t *testing.T) {
	mock := &llm.MockClient{Response: "```json\n{\"skills\": [\"go\"],}\n```"}
	summarizer := NewSummarizer(mock)

	summary, err := summarizer.Summarize(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("Repairable payload should parse: %v", err)
	}
	if _, ok := summary["skills"]; !ok {
		t.Errorf("Expected skills in summary, got %v", summary)
	}
}

func TestSummarizer_HardFailures(t *testing.T) {
	t.Run("inference error", func(t *testing.T) {
		summarizer := NewSummarizer(&llm.MockClient{Err: errors.New("boom")})
		if _, err := summarizer.Summarize(context.Background(), "text"); err == nil {
			t.Error("Expected inference error to propagate")
		}
	})

	t.Run("unparseable reply", func(t *testing.T) {
		// No soft path here: a summary that cannot parse is an error.
		summarizer := NewSummarizer(&llm.MockClient{Response: "plain prose, no JSON"})
		if _, err := summarizer.Summarize(context.Background(), "text"); err == nil {
			t.Error("Expected parse error for an unparseable summary")
		}
	})
}
