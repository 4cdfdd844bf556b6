package app

import (
	"context"
	"errors"
	"fmt"

	"deepjobsearch/internal/jsonx"
	"deepjobsearch/internal/llm"
	"deepjobsearch/internal/logging"
	"deepjobsearch/internal/observability"
	"deepjobsearch/internal/prompts"
	"deepjobsearch/internal/server/ports"

	"github.com/kaptinlin/jsonrepair"
)

// Progress checkpoints for the fixed four-stage pipeline.
const (
	progressStarting        = 0
	progressQueryBuilt      = 20
	progressResultsReceived = 90
)

const (
	completionTemperature = 0.7
	completionMaxTokens   = 2000
)

// parseFallbackQuestion is the single clarifying question substituted when
// the model's reply cannot be parsed.
const parseFallbackQuestion = "Could you provide more specific job requirements?"

// defaultFollowupQuestions replace an absent followup_questions list on an
// otherwise well-formed reply.
var defaultFollowupQuestions = []string{
	"Would you like to specify any particular industry?",
	"Are there specific technologies or skills you'd like to focus on?",
	"Do you have any preferences regarding company culture?",
}

// SearchExecutor runs the deep-search pipeline for one task: build the
// prompt, call the inference provider, normalize the reply, commit the
// result. Single attempt per task, no retry.
type SearchExecutor struct {
	llm     llm.Client
	store   ports.TaskStore
	logger  *logging.Logger
	metrics *observability.Metrics
}

// NewSearchExecutor creates an executor bound to an inference client and a
// task store.
func NewSearchExecutor(client llm.Client, store ports.TaskStore, metrics *observability.Metrics) *SearchExecutor {
	return &SearchExecutor{
		llm:     client,
		store:   store,
		logger:  logging.NewComponentLogger("SearchExecutor"),
		metrics: metrics,
	}
}

// Run executes the pipeline once for the given task. Any fatal error is
// committed to the store as FAILURE exactly once and then returned to the
// caller so the worker wrapper can log and count it. After FAILURE is
// committed no further state mutation happens.
func (e *SearchExecutor) Run(ctx context.Context, taskID string, resumeSummary map[string]any, prefs ports.Preferences) error {
	// Revocation point: a task cancelled before pickup must leave no trace.
	if err := ctx.Err(); err != nil {
		e.logger.Info("Task %s revoked before execution: %v", taskID, context.Cause(ctx))
		return err
	}

	if err := e.run(ctx, taskID, resumeSummary, prefs); err != nil {
		// The store call must survive a dead task context.
		if storeErr := e.store.SetError(context.WithoutCancel(ctx), taskID, err); storeErr != nil {
			e.logger.Error("Failed to record failure for task %s: %v", taskID, storeErr)
		}
		return err
	}
	return nil
}

func (e *SearchExecutor) run(ctx context.Context, taskID string, resumeSummary map[string]any, prefs ports.Preferences) error {
	// Stage 1: initialize.
	if err := e.store.SetProgress(ctx, taskID, progressStarting, "Starting job search...", []ports.Job{}); err != nil {
		return fmt.Errorf("initialize task: %w", err)
	}

	// Stage 2: build the query. Pure derivation, cannot fail on input the
	// dispatcher already validated.
	prompt := prompts.DeepSearch(resumeSummary, prefs)
	if err := e.store.SetProgress(ctx, taskID, progressQueryBuilt, "Generated search criteria...", []ports.Job{}); err != nil {
		return fmt.Errorf("record query checkpoint: %w", err)
	}

	// Stage 3: the one blocking call of consequence.
	resp, err := e.llm.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.DeepSearchSystem},
			{Role: "user", Content: prompt},
		},
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	e.metrics.RecordLLMRequest(ctx, err)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("task time limit exceeded: %w", err)
		}
		return fmt.Errorf("job search inference failed: %w", err)
	}

	outcome := parseSearchResponse(resp.Content)
	if outcome.Note != "" {
		e.logger.Warn("Task %s: unparseable inference reply, degrading to empty result: %s", taskID, outcome.Note)
	}
	if err := e.store.SetProgress(ctx, taskID, progressResultsReceived, "Processing results...", outcome.Jobs); err != nil {
		return fmt.Errorf("record results checkpoint: %w", err)
	}

	// Stage 4: normalize and finalize.
	if err := e.store.SetResult(ctx, taskID, outcome.finalResult()); err != nil {
		return fmt.Errorf("commit result: %w", err)
	}
	e.logger.Info("Task %s completed: %d jobs, %d followup questions", taskID, len(outcome.Jobs), len(outcome.FollowupQuestions))
	return nil
}

// searchOutcome is the tagged result of the inference boundary. A set Note
// marks a soft parse failure: the provider answered, the payload was not the
// expected shape, and the task still succeeds with a usable-if-empty result.
// Fatal faults (auth, network, timeout) never reach this type.
type searchOutcome struct {
	Jobs              []ports.Job
	FollowupQuestions []string
	Note              string
}

func parseSearchResponse(content string) searchOutcome {
	var payload ports.SearchResult
	if err := jsonx.Unmarshal([]byte(content), &payload); err == nil {
		return searchOutcome{Jobs: payload.Jobs, FollowupQuestions: payload.FollowupQuestions}
	}

	// Models routinely emit almost-JSON (fences, trailing commas); try a
	// repair pass before giving up on the payload.
	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr == nil {
		if err := jsonx.Unmarshal([]byte(repaired), &payload); err == nil {
			return searchOutcome{Jobs: payload.Jobs, FollowupQuestions: payload.FollowupQuestions}
		}
	}

	return searchOutcome{
		FollowupQuestions: []string{parseFallbackQuestion},
		Note:              "failed to parse inference response",
	}
}

// finalResult coerces the outcome into the committed SUCCESS payload: absent
// jobs become an empty list, absent followups get the fixed default set.
func (o searchOutcome) finalResult() *ports.SearchResult {
	jobs := o.Jobs
	if jobs == nil {
		jobs = []ports.Job{}
	}
	questions := o.FollowupQuestions
	if len(questions) == 0 {
		questions = append([]string(nil), defaultFollowupQuestions...)
	}
	return &ports.SearchResult{
		Jobs:              jobs,
		FollowupQuestions: questions,
		Note:              o.Note,
	}
}
