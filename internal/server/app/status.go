package app

import (
	"context"
	"errors"

	"deepjobsearch/internal/server/ports"
)

// StatusResponse is the uniform polling payload. Absent fields render as
// JSON null, matching what callers of the original API expect.
type StatusResponse struct {
	TaskID   string  `json:"task_id"`
	Status   string  `json:"status"`
	Progress *int    `json:"progress"`
	Result   any     `json:"result"`
	Error    *string `json:"error"`
}

// progressResult is the mid-flight result shape exposed while a task is in
// PROGRESS.
type progressResult struct {
	CurrentJobs       []ports.Job `json:"current_jobs"`
	FollowupQuestions []string    `json:"followup_questions"`
	Status            string      `json:"status"`
}

// GetStatus reads the task record and reshapes it for the caller. It performs
// no computation beyond rendering; the store is the single source of truth.
//
// Unknown ids render exactly like PENDING, so clients polling a stale or
// mistyped id keep working instead of erroring.
func (c *SearchCoordinator) GetStatus(ctx context.Context, taskID string) (StatusResponse, error) {
	task, err := c.store.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, ports.ErrTaskNotFound) {
			return StatusResponse{TaskID: taskID, Status: string(ports.TaskStatePending)}, nil
		}
		return StatusResponse{}, err
	}
	return RenderStatus(task), nil
}

// RenderStatus is a pure function of the task record.
func RenderStatus(task *ports.Task) StatusResponse {
	resp := StatusResponse{
		TaskID: task.ID,
		Status: string(task.State),
	}

	switch task.State {
	case ports.TaskStateProgress:
		progress := task.Progress
		resp.Progress = &progress
		partial := task.PartialResult
		if partial == nil {
			partial = []ports.Job{}
		}
		resp.Result = progressResult{
			CurrentJobs:       partial,
			FollowupQuestions: []string{},
			Status:            task.StatusMessage,
		}
	case ports.TaskStateSuccess:
		progress := 100
		resp.Progress = &progress
		resp.Result = task.FinalResult
	case ports.TaskStateFailure:
		errMsg := task.Error
		resp.Error = &errMsg
	}

	return resp
}
