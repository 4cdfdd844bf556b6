package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"deepjobsearch/internal/llm"
	"deepjobsearch/internal/logging"
	"deepjobsearch/internal/observability"
	"deepjobsearch/internal/resume"
	serverApp "deepjobsearch/internal/server/app"
	serverHTTP "deepjobsearch/internal/server/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds server configuration.
type Config struct {
	Port           string
	APIKey         string
	BaseURL        string
	Model          string
	TaskTimeLimit  time.Duration
	WorkerSlots    int64
	UploadDir      string
	AllowedOrigins []string
	MetricsEnabled bool
	MetricsPort    int
	Debug          bool
}

var rootCmd = &cobra.Command{
	Use:   "deepsearch-server",
	Short: "Deep Job Search API server",
	Long:  "HTTP service that extracts resume text and runs LLM-backed job searches as pollable background tasks.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServer()
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("port", "8000", "HTTP listen port")
	flags.String("base-url", "", "OpenAI-compatible API base URL")
	flags.String("model", "gpt-4", "inference model")
	flags.Duration("task-time-limit", time.Hour, "hard wall-clock budget per task")
	flags.Int64("worker-slots", 0, "concurrent task limit (0 = one per CPU)")
	flags.String("upload-dir", "./uploads", "directory for stored resume uploads")
	flags.String("allowed-origins", "http://localhost:3000", "comma-separated CORS origins")
	flags.Bool("metrics-enabled", false, "expose Prometheus metrics")
	flags.Int("metrics-port", 9090, "Prometheus scrape port")
	flags.Bool("debug", false, "verbose logging and gin debug mode")

	viper.SetEnvPrefix("DEEPSEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	// The credential keeps its conventional env name alongside the prefixed one.
	if err := viper.BindEnv("api-key", "DEEPSEARCH_API_KEY", "OPENAI_API_KEY"); err != nil {
		log.Fatalf("binding api-key environment variable: %v", err)
	}
	if err := viper.BindPFlags(flags); err != nil {
		log.Fatalf("binding flags: %v", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() Config {
	return Config{
		Port:           viper.GetString("port"),
		APIKey:         viper.GetString("api-key"),
		BaseURL:        viper.GetString("base-url"),
		Model:          viper.GetString("model"),
		TaskTimeLimit:  viper.GetDuration("task-time-limit"),
		WorkerSlots:    viper.GetInt64("worker-slots"),
		UploadDir:      viper.GetString("upload-dir"),
		AllowedOrigins: splitOrigins(viper.GetString("allowed-origins")),
		MetricsEnabled: viper.GetBool("metrics-enabled"),
		MetricsPort:    viper.GetInt("metrics-port"),
		Debug:          viper.GetBool("debug"),
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) < 12 {
		return "(set)"
	}
	return key[:6] + "..." + key[len(key)-4:]
}

func runServer() error {
	logger := logging.NewComponentLogger("Main")
	cfg := loadConfig()
	if cfg.Debug {
		logging.GetLogger().SetLevel(logging.DEBUG)
	}

	logger.Info("=== Server Configuration ===")
	logger.Info("Port: %s", cfg.Port)
	logger.Info("Model: %s", cfg.Model)
	logger.Info("API Key: %s", maskKey(cfg.APIKey))
	logger.Info("Task time limit: %s", cfg.TaskTimeLimit)
	logger.Info("Upload dir: %s", cfg.UploadDir)
	logger.Info("===========================")

	metrics, err := observability.NewMetrics(observability.Config{
		Enabled:        cfg.MetricsEnabled,
		PrometheusPort: cfg.MetricsPort,
	})
	if err != nil {
		return fmt.Errorf("initialize metrics: %w", err)
	}
	metrics.StartServer(logger)

	client := buildLLMClient(cfg, logger)

	store := serverApp.NewInMemoryTaskStore()
	executor := serverApp.NewSearchExecutor(client, store, metrics)
	coordinator := serverApp.NewSearchCoordinator(store, executor, metrics, serverApp.CoordinatorConfig{
		TaskTimeLimit: cfg.TaskTimeLimit,
		WorkerSlots:   cfg.WorkerSlots,
	})

	uploads, err := resume.NewUploadStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("initialize upload store: %w", err)
	}
	summarizer := resume.NewSummarizer(client)

	health := serverApp.NewHealthChecker()
	health.RegisterProbe(serverApp.NewQueueProbe(coordinator))
	health.RegisterProbe(serverApp.NewInferenceProbe(cfg.APIKey != "", cfg.Model))

	handler := serverHTTP.NewAPIHandler(coordinator, uploads, summarizer, health)
	router := serverHTTP.NewRouter(handler, cfg.AllowedOrigins, cfg.Debug)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// Summarize calls block on inference for tens of seconds.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := metrics.Shutdown(ctx); err != nil {
		logger.Warn("Metrics server shutdown: %v", err)
	}

	logger.Info("Server stopped")
	return nil
}

func buildLLMClient(cfg Config, logger *logging.Logger) llm.Client {
	if cfg.APIKey == "" {
		// The server still boots; affected tasks fail with a descriptive error.
		logger.Warn("No inference API key configured; deep-search tasks will fail until one is set")
		return llm.Unconfigured(cfg.Model)
	}

	client, err := llm.NewOpenAIClient(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		logger.Error("Failed to build inference client: %v", err)
		return llm.Unconfigured(cfg.Model)
	}
	return client
}
