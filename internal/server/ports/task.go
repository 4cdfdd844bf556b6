package ports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskState is the closed lifecycle enum for a deep-search task.
//
// PENDING is the state between submission and worker pickup. PROGRESS covers
// the whole pipeline run. SUCCESS and FAILURE are terminal; no transition
// leaves them.
type TaskState string

const (
	TaskStatePending  TaskState = "PENDING"
	TaskStateProgress TaskState = "PROGRESS"
	TaskStateSuccess  TaskState = "SUCCESS"
	TaskStateFailure  TaskState = "FAILURE"
)

// Terminal reports whether the state accepts no further transitions.
func (s TaskState) Terminal() bool {
	return s == TaskStateSuccess || s == TaskStateFailure
}

// CanTransition is the single authoritative transition rule for task states.
func (s TaskState) CanTransition(to TaskState) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case TaskStatePending:
		return to == TaskStateProgress || to == TaskStateFailure
	case TaskStateProgress:
		return to == TaskStateProgress || to == TaskStateSuccess || to == TaskStateFailure
	default:
		return false
	}
}

// Job is one posting returned by the inference provider.
type Job struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ApplyLink   string `json:"apply_link"`
	MatchScore  string `json:"match_score"`
}

// SearchResult is the completed payload of a successful task.
//
// Note carries the description of a soft parse failure: the model replied but
// not in the expected shape, so the task still succeeds with an empty jobs
// list and a clarifying question.
type SearchResult struct {
	Jobs              []Job    `json:"jobs"`
	FollowupQuestions []string `json:"followup_questions"`
	Note              string   `json:"error,omitempty"`
}

// Preferences are the caller-supplied search constraints.
type Preferences struct {
	Location       string `json:"location"`
	CompanySize    string `json:"company_size"`
	RoleType       string `json:"role_type"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// Validate rejects submissions before any task record is created.
func (p Preferences) Validate() error {
	if strings.TrimSpace(p.Location) == "" {
		return errors.New("preferences.location is required")
	}
	if strings.TrimSpace(p.RoleType) == "" {
		return errors.New("preferences.role_type is required")
	}
	return nil
}

// Task is one asynchronous job-search execution.
//
// Exactly one of {nothing, PartialResult, FinalResult, Error} is populated
// depending on State: PENDING carries nothing, PROGRESS a possibly-empty
// PartialResult, SUCCESS the FinalResult, FAILURE the Error string.
type Task struct {
	ID            string        `json:"task_id"`
	State         TaskState     `json:"status"`
	Progress      int           `json:"progress"`
	StatusMessage string        `json:"status_message,omitempty"`
	PartialResult []Job         `json:"partial_result,omitempty"`
	FinalResult   *SearchResult `json:"final_result,omitempty"`
	Error         string        `json:"error,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// ErrTaskNotFound is returned by stores for unknown task ids.
var ErrTaskNotFound = errors.New("task not found")

// ErrInvalidTransition is returned when a write would leave a terminal state
// or move progress backwards.
var ErrInvalidTransition = errors.New("invalid task state transition")

// TaskStore manages task lifecycle records. It is the single source of truth
// for task state: each record is written by exactly one executor and read by
// arbitrarily many status callers, so implementations must provide atomic
// single-record read/write.
type TaskStore interface {
	// Create allocates a task id and stores a PENDING record.
	Create(ctx context.Context) (*Task, error)

	// Get retrieves a snapshot of a task by id. Unknown ids yield an error
	// wrapping ErrTaskNotFound.
	Get(ctx context.Context, taskID string) (*Task, error)

	// SetProgress commits a PROGRESS checkpoint. Progress must be
	// non-decreasing for a given task.
	SetProgress(ctx context.Context, taskID string, progress int, statusMessage string, partial []Job) error

	// SetResult commits the task to SUCCESS with its final payload.
	SetResult(ctx context.Context, taskID string, result *SearchResult) error

	// SetError commits the task to FAILURE.
	SetError(ctx context.Context, taskID string, taskErr error) error

	// Delete removes a task record. Used for revoked throwaway tasks only;
	// real tasks are never deleted by this service.
	Delete(ctx context.Context, taskID string) error
}

// NotFoundError builds the store-level error for an unknown id.
func NotFoundError(taskID string) error {
	return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
}
