package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"deepjobsearch/internal/server/ports"

	"github.com/google/uuid"
)

// InMemoryTaskStore implements ports.TaskStore with in-memory storage.
//
// Each record has a single writer (the executor goroutine for that task id)
// and many readers, so a plain RWMutex over the map gives the atomic
// single-record semantics the contract asks for.
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*ports.Task
}

// NewInMemoryTaskStore creates a new in-memory task store.
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		tasks: make(map[string]*ports.Task),
	}
}

// Create allocates a task id and stores a PENDING record.
func (s *InMemoryTaskStore) Create(ctx context.Context) (*ports.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &ports.Task{
		ID:        fmt.Sprintf("task-%s", uuid.New().String()),
		State:     ports.TaskStatePending,
		CreatedAt: time.Now(),
	}

	s.tasks[task.ID] = task
	snapshot := *task
	return &snapshot, nil
}

// Get retrieves a snapshot of a task by id. Returning a copy keeps readers
// off the record the executor goroutine is still mutating.
func (s *InMemoryTaskStore) Get(ctx context.Context, taskID string) (*ports.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, ports.NotFoundError(taskID)
	}

	snapshot := *task
	snapshot.PartialResult = append([]ports.Job(nil), task.PartialResult...)
	return &snapshot, nil
}

// SetProgress commits a PROGRESS checkpoint for the task.
func (s *InMemoryTaskStore) SetProgress(ctx context.Context, taskID string, progress int, statusMessage string, partial []ports.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return ports.NotFoundError(taskID)
	}
	if !task.State.CanTransition(ports.TaskStateProgress) {
		return fmt.Errorf("%w: %s -> %s", ports.ErrInvalidTransition, task.State, ports.TaskStateProgress)
	}
	if task.State == ports.TaskStateProgress && progress < task.Progress {
		return fmt.Errorf("%w: progress %d -> %d", ports.ErrInvalidTransition, task.Progress, progress)
	}

	if task.StartedAt == nil {
		now := time.Now()
		task.StartedAt = &now
	}
	task.State = ports.TaskStateProgress
	task.Progress = progress
	task.StatusMessage = statusMessage
	task.PartialResult = append([]ports.Job(nil), partial...)
	return nil
}

// SetResult commits the task to SUCCESS with its final payload.
func (s *InMemoryTaskStore) SetResult(ctx context.Context, taskID string, result *ports.SearchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return ports.NotFoundError(taskID)
	}
	if !task.State.CanTransition(ports.TaskStateSuccess) {
		return fmt.Errorf("%w: %s -> %s", ports.ErrInvalidTransition, task.State, ports.TaskStateSuccess)
	}

	now := time.Now()
	task.State = ports.TaskStateSuccess
	task.Progress = 100
	task.StatusMessage = ""
	task.PartialResult = nil
	task.FinalResult = result
	task.CompletedAt = &now
	return nil
}

// SetError commits the task to FAILURE. No state mutation is possible after
// this point.
func (s *InMemoryTaskStore) SetError(ctx context.Context, taskID string, taskErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return ports.NotFoundError(taskID)
	}
	if !task.State.CanTransition(ports.TaskStateFailure) {
		return fmt.Errorf("%w: %s -> %s", ports.ErrInvalidTransition, task.State, ports.TaskStateFailure)
	}

	now := time.Now()
	task.State = ports.TaskStateFailure
	task.StatusMessage = ""
	task.PartialResult = nil
	task.Error = taskErr.Error()
	task.CompletedAt = &now
	return nil
}

// Delete removes a task record.
func (s *InMemoryTaskStore) Delete(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[taskID]; !exists {
		return ports.NotFoundError(taskID)
	}

	delete(s.tasks, taskID)
	return nil
}
