package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"deepjobsearch/internal/async"
	"deepjobsearch/internal/logging"
	"deepjobsearch/internal/observability"
	"deepjobsearch/internal/server/ports"

	"golang.org/x/sync/semaphore"
)

// ErrInvalidSubmission marks submissions rejected before any task record was
// created.
var ErrInvalidSubmission = errors.New("invalid submission")

// ErrTaskRevoked is the cancellation cause for tasks revoked before pickup.
var ErrTaskRevoked = errors.New("task revoked")

const defaultTaskTimeLimit = time.Hour

// CoordinatorConfig tunes background execution.
type CoordinatorConfig struct {
	// TaskTimeLimit is the hard wall-clock budget per task. Zero means the
	// one-hour default.
	TaskTimeLimit time.Duration
	// WorkerSlots bounds how many tasks execute concurrently, one task per
	// slot. Zero means one slot per CPU.
	WorkerSlots int64
}

// SearchCoordinator accepts deep-search submissions and owns their background
// execution: it creates the PENDING record, schedules exactly one executor
// run per task on a bounded worker pool, and answers status polls.
type SearchCoordinator struct {
	store    ports.TaskStore
	executor *SearchExecutor
	logger   *logging.Logger
	metrics  *observability.Metrics

	timeLimit time.Duration
	slots     *semaphore.Weighted

	cancelMu    sync.Mutex
	cancelFuncs map[string]context.CancelCauseFunc
}

// NewSearchCoordinator wires the dispatcher with its store and executor.
func NewSearchCoordinator(store ports.TaskStore, executor *SearchExecutor, metrics *observability.Metrics, cfg CoordinatorConfig) *SearchCoordinator {
	timeLimit := cfg.TaskTimeLimit
	if timeLimit <= 0 {
		timeLimit = defaultTaskTimeLimit
	}
	slots := cfg.WorkerSlots
	if slots <= 0 {
		slots = int64(runtime.NumCPU())
	}
	return &SearchCoordinator{
		store:       store,
		executor:    executor,
		logger:      logging.NewComponentLogger("SearchCoordinator"),
		metrics:     metrics,
		timeLimit:   timeLimit,
		slots:       semaphore.NewWeighted(slots),
		cancelFuncs: make(map[string]context.CancelCauseFunc),
	}
}

// ExecuteSearchAsync validates the submission, creates the task record and
// schedules the executor. It returns the PENDING task immediately, never
// waiting on the inference call. On invalid input it fails before any record
// exists, so no orphan task is left behind.
func (c *SearchCoordinator) ExecuteSearchAsync(ctx context.Context, resumeSummary map[string]any, prefs ports.Preferences) (*ports.Task, error) {
	if err := prefs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	task, err := c.store.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	taskID := task.ID

	// Detach from the request context so the task survives the HTTP handler
	// returning; explicit revocation and the time limit still apply.
	taskCtx, cancel := context.WithCancelCause(context.WithoutCancel(ctx))

	c.cancelMu.Lock()
	c.cancelFuncs[taskID] = cancel
	c.cancelMu.Unlock()

	async.Go(c.logger, "search.execute", func() {
		defer func() {
			c.cancelMu.Lock()
			delete(c.cancelFuncs, taskID)
			c.cancelMu.Unlock()
		}()
		c.runInBackground(taskCtx, taskID, resumeSummary, prefs)
	})

	c.logger.Info("Task created: taskID=%s, returning immediately", taskID)
	return task, nil
}

// runInBackground holds a worker slot for the duration of one executor run.
// One in-flight inference call never blocks other workers; it only occupies
// its own slot.
func (c *SearchCoordinator) runInBackground(taskCtx context.Context, taskID string, resumeSummary map[string]any, prefs ports.Preferences) {
	runCtx, cancelTimeout := context.WithTimeout(taskCtx, c.timeLimit)
	defer cancelTimeout()

	if err := c.slots.Acquire(runCtx, 1); err != nil {
		if errors.Is(context.Cause(taskCtx), ErrTaskRevoked) {
			c.logger.Info("Task %s revoked while waiting for a worker slot", taskID)
			return
		}
		c.logger.Error("Task %s aborted before execution: %v", taskID, err)
		_ = c.store.SetError(context.WithoutCancel(runCtx), taskID, fmt.Errorf("task aborted before execution: %w", err))
		c.metrics.RecordTaskExecution(context.WithoutCancel(runCtx), "aborted", 0)
		return
	}
	defer c.slots.Release(1)

	start := time.Now()
	c.metrics.IncrementActiveTasks(runCtx)
	defer c.metrics.DecrementActiveTasks(context.WithoutCancel(runCtx))

	err := c.executor.Run(runCtx, taskID, resumeSummary, prefs)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		if errors.Is(context.Cause(taskCtx), ErrTaskRevoked) {
			outcome = "revoked"
		}
		c.logger.Error("Task %s failed: %v", taskID, err)
	}
	c.metrics.RecordTaskExecution(context.WithoutCancel(runCtx), outcome, time.Since(start))
}

// RevokeTask cancels a task that has not begun executing and removes its
// record. This is the only cancellation point exposed: it exists for the
// health probe's throwaway task, not for callers mid-flight.
func (c *SearchCoordinator) RevokeTask(ctx context.Context, taskID string) error {
	task, err := c.store.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if task.State != ports.TaskStatePending {
		return fmt.Errorf("cannot revoke task %s in state %s", taskID, task.State)
	}

	c.cancelMu.Lock()
	cancel, ok := c.cancelFuncs[taskID]
	delete(c.cancelFuncs, taskID)
	c.cancelMu.Unlock()
	if ok {
		cancel(ErrTaskRevoked)
	}

	if err := c.store.Delete(ctx, taskID); err != nil && !errors.Is(err, ports.ErrTaskNotFound) {
		return err
	}
	c.logger.Info("Task %s revoked", taskID)
	return nil
}
