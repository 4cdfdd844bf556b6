// Package observability exposes service metrics through an OpenTelemetry
// meter backed by a Prometheus scrape endpoint.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Config configures the metrics collector.
type Config struct {
	Enabled        bool
	PrometheusPort int
}

// Metrics manages all metrics for the deep-search service. A nil or disabled
// collector is safe to call; every method becomes a no-op.
type Metrics struct {
	meter metric.Meter

	taskExecutions metric.Int64Counter
	taskDuration   metric.Float64Histogram
	tasksActive    metric.Int64UpDownCounter
	llmRequests    metric.Int64Counter

	prometheusServer *http.Server
}

// NewMetrics creates a metrics collector and, when enabled, the Prometheus
// scrape server (not yet started; call StartServer).
func NewMetrics(config Config) (*Metrics, error) {
	if !config.Enabled {
		return &Metrics{}, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter("deepjobsearch")

	m := &Metrics{meter: meter}

	m.taskExecutions, err = meter.Int64Counter(
		"deepsearch.tasks.total",
		metric.WithDescription("Total number of deep-search task executions"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create task counter: %w", err)
	}

	m.taskDuration, err = meter.Float64Histogram(
		"deepsearch.task.duration",
		metric.WithDescription("Deep-search task execution duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create task duration histogram: %w", err)
	}

	m.tasksActive, err = meter.Int64UpDownCounter(
		"deepsearch.tasks.active",
		metric.WithDescription("Tasks currently executing"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create active task counter: %w", err)
	}

	m.llmRequests, err = meter.Int64Counter(
		"deepsearch.llm.requests.total",
		metric.WithDescription("Total number of inference requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm request counter: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promclient.Handler())
	m.prometheusServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", config.PrometheusPort),
		Handler: mux,
	}

	return m, nil
}

// RecordTaskExecution counts a finished task by outcome and observes its
// duration.
func (m *Metrics) RecordTaskExecution(ctx context.Context, outcome string, d time.Duration) {
	if m == nil || m.taskExecutions == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.taskExecutions.Add(ctx, 1, attrs)
	m.taskDuration.Record(ctx, d.Seconds(), attrs)
}

// IncrementActiveTasks marks a task as executing.
func (m *Metrics) IncrementActiveTasks(ctx context.Context) {
	if m == nil || m.tasksActive == nil {
		return
	}
	m.tasksActive.Add(ctx, 1)
}

// DecrementActiveTasks marks a task as done executing.
func (m *Metrics) DecrementActiveTasks(ctx context.Context) {
	if m == nil || m.tasksActive == nil {
		return
	}
	m.tasksActive.Add(ctx, -1)
}

// RecordLLMRequest counts one inference call by result.
func (m *Metrics) RecordLLMRequest(ctx context.Context, callErr error) {
	if m == nil || m.llmRequests == nil {
		return
	}
	status := "ok"
	if callErr != nil {
		status = "error"
	}
	m.llmRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// StartServer starts the Prometheus scrape endpoint in the background.
func (m *Metrics) StartServer(errorLog interface{ Error(string, ...any) }) {
	if m == nil || m.prometheusServer == nil {
		return
	}
	go func() {
		if err := m.prometheusServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if errorLog != nil {
				errorLog.Error("Prometheus server error: %v", err)
			}
		}
	}()
}

// Shutdown stops the Prometheus scrape endpoint.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.prometheusServer == nil {
		return nil
	}
	return m.prometheusServer.Shutdown(ctx)
}
