package app

import (
	"context"
	"testing"
	"time"

	"deepjobsearch/internal/llm"
	"deepjobsearch/internal/server/ports"
)

func TestQueueProbe_SubmitsAndRevokes(t *testing.T) {
	blockerMock := &llm.MockClient{
		Response: `{"jobs": [], "followup_questions": []}`,
		Delay:    300 * time.Millisecond,
	}
	coordinator, store := newTestCoordinator(blockerMock, CoordinatorConfig{WorkerSlots: 1})
	ctx := context.Background()

	// Hold the only worker slot so the probe's throwaway task cannot start
	// before it is revoked.
	blocker, err := coordinator.ExecuteSearchAsync(ctx, map[string]any{}, testPrefs)
	if err != nil {
		t.Fatalf("Failed to submit blocker task: %v", err)
	}
	waitForState(t, store, blocker.ID, ports.TaskStateProgress)

	probe := NewQueueProbe(coordinator)
	result := probe.Check(ctx)

	if result.Status != HealthStatusReady {
		t.Fatalf("Expected ready, got %s (%s)", result.Status, result.Message)
	}
	if result.Name != "task_queue" {
		t.Errorf("Unexpected probe name: %s", result.Name)
	}

	waitForState(t, store, blocker.ID, ports.TaskStateSuccess)
}

func TestInferenceProbe(t *testing.T) {
	configured := NewInferenceProbe(true, "gpt-4").Check(context.Background())
	if configured.Status != HealthStatusReady {
		t.Errorf("Expected ready with a configured key, got %s", configured.Status)
	}
	if configured.Details["model"] != "gpt-4" {
		t.Errorf("Expected model in details, got %v", configured.Details)
	}

	unconfigured := NewInferenceProbe(false, "gpt-4").Check(context.Background())
	if unconfigured.Status != HealthStatusNotReady {
		t.Errorf("Expected not_ready without a key, got %s", unconfigured.Status)
	}
}

func TestHealthChecker_CheckAll(t *testing.T) {
	checker := NewHealthChecker()
	checker.RegisterProbe(NewInferenceProbe(true, "gpt-4"))
	checker.RegisterProbe(NewInferenceProbe(false, "gpt-4"))

	results := checker.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if Healthy(results) {
		t.Error("Aggregate must be unhealthy when any probe is not ready")
	}

	if !Healthy(results[:1]) {
		t.Error("A ready-only slice must be healthy")
	}
	if !Healthy(nil) {
		t.Error("No probes means healthy")
	}
}
