package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"deepjobsearch/internal/jsonx"
	"deepjobsearch/internal/llm"
	"deepjobsearch/internal/server/ports"
)

func TestRenderStatus_Pending(t *testing.T) {
	resp := RenderStatus(&ports.Task{ID: "task-1", State: ports.TaskStatePending})

	if resp.Status != "PENDING" {
		t.Errorf("Expected PENDING, got %s", resp.Status)
	}
	if resp.Progress != nil || resp.Result != nil || resp.Error != nil {
		t.Errorf("PENDING must expose no progress, result or error: %+v", resp)
	}
}

func TestRenderStatus_Progress(t *testing.T) {
	resp := RenderStatus(&ports.Task{
		ID:            "task-1",
		State:         ports.TaskStateProgress,
		Progress:      20,
		StatusMessage: "Generated search criteria...",
	})

	if resp.Progress == nil || *resp.Progress != 20 {
		t.Fatalf("Expected progress 20, got %v", resp.Progress)
	}

	partial, ok := resp.Result.(progressResult)
	if !ok {
		t.Fatalf("Expected progressResult, got %T", resp.Result)
	}
	if partial.CurrentJobs == nil {
		t.Error("CurrentJobs must render as an empty list, not null")
	}
	if partial.FollowupQuestions == nil {
		t.Error("FollowupQuestions must render as an empty list, not null")
	}
	if partial.Status != "Generated search criteria..." {
		t.Errorf("Unexpected status message: %q", partial.Status)
	}
}

func TestRenderStatus_Success(t *testing.T) {
	result := &ports.SearchResult{
		Jobs:              []ports.Job{{Title: "Dev"}},
		FollowupQuestions: []string{"q?"},
	}
	resp := RenderStatus(&ports.Task{
		ID:          "task-1",
		State:       ports.TaskStateSuccess,
		Progress:    100,
		FinalResult: result,
	})

	if resp.Progress == nil || *resp.Progress != 100 {
		t.Fatalf("Expected progress 100, got %v", resp.Progress)
	}
	if resp.Result != result {
		t.Error("SUCCESS should expose the final result")
	}
	if resp.Error != nil {
		t.Errorf("SUCCESS must not expose an error, got %v", *resp.Error)
	}
}

func TestRenderStatus_Failure(t *testing.T) {
	resp := RenderStatus(&ports.Task{
		ID:    "task-1",
		State: ports.TaskStateFailure,
		Error: "job search inference failed",
	})

	if resp.Error == nil || *resp.Error != "job search inference failed" {
		t.Fatalf("Expected the failure message, got %v", resp.Error)
	}
	if resp.Progress != nil || resp.Result != nil {
		t.Errorf("FAILURE must expose only the error: %+v", resp)
	}
}

func TestGetStatus_UnknownIDRendersPending(t *testing.T) {
	coordinator, _ := newTestCoordinator(&llm.MockClient{}, CoordinatorConfig{})

	resp, err := coordinator.GetStatus(context.Background(), "task-never-created")
	if err != nil {
		t.Fatalf("GetStatus must not error on unknown ids: %v", err)
	}
	if resp.Status != string(ports.TaskStatePending) {
		t.Errorf("Expected PENDING for unknown id, got %s", resp.Status)
	}
	if resp.TaskID != "task-never-created" {
		t.Errorf("Expected the queried id echoed back, got %s", resp.TaskID)
	}
}

func TestGetStatus_ReadIsIdempotent(t *testing.T) {
	mock := &llm.MockClient{Response: `{"jobs": [], "followup_questions": ["q?"]}`}
	coordinator, store := newTestCoordinator(mock, CoordinatorConfig{})
	ctx := context.Background()

	task, err := coordinator.ExecuteSearchAsync(ctx, map[string]any{}, testPrefs)
	if err != nil {
		t.Fatalf("ExecuteSearchAsync failed: %v", err)
	}
	waitForState(t, store, task.ID, ports.TaskStateSuccess)

	first, _ := coordinator.GetStatus(ctx, task.ID)
	time.Sleep(10 * time.Millisecond)
	second, _ := coordinator.GetStatus(ctx, task.ID)

	if first.Status != second.Status || *first.Progress != *second.Progress {
		t.Errorf("Repeated polls of a terminal task must match: %+v vs %+v", first, second)
	}
}

func TestStatusResponse_NullFieldsInJSON(t *testing.T) {
	resp := RenderStatus(&ports.Task{ID: "task-1", State: ports.TaskStatePending})

	raw, err := jsonx.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, field := range []string{`"progress":null`, `"result":null`, `"error":null`} {
		if !strings.Contains(string(raw), field) {
			t.Errorf("Expected %s in payload, got %s", field, raw)
		}
	}
}
