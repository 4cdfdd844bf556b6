// Package http exposes the service over a gin-based REST API.
package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"deepjobsearch/internal/logging"
	"deepjobsearch/internal/resume"
	"deepjobsearch/internal/server/app"
	"deepjobsearch/internal/server/ports"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// APIHandler handles the REST API endpoints.
type APIHandler struct {
	coordinator *app.SearchCoordinator
	uploads     *resume.UploadStore
	summarizer  *resume.Summarizer
	health      *app.HealthChecker
	logger      *logging.Logger
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(coordinator *app.SearchCoordinator, uploads *resume.UploadStore, summarizer *resume.Summarizer, health *app.HealthChecker) *APIHandler {
	return &APIHandler{
		coordinator: coordinator,
		uploads:     uploads,
		summarizer:  summarizer,
		health:      health,
		logger:      logging.NewComponentLogger("APIHandler"),
	}
}

// DeepSearchRequest is the submission body for a deep search.
type DeepSearchRequest struct {
	ResumeSummary map[string]any    `json:"resume_summary"`
	Preferences   ports.Preferences `json:"preferences"`
}

// TaskResponse acknowledges an accepted submission.
type TaskResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UploadSummary describes an extracted resume upload.
type UploadSummary struct {
	Text        string `json:"text"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	StorageKey  string `json:"storage_key"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (h *APIHandler) writeError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		h.logger.Error("HTTP %d - %s: %v", status, message, err)
	} else {
		h.logger.Warn("HTTP %d - %s", status, message)
	}
	resp := errorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(status, resp)
}

// HandleRoot handles GET /.
func (h *APIHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Deep Job Search API is running"})
}

// HandleDeepSearch handles POST /api/deep_search: validates the submission,
// dispatches the background task and acknowledges with the task id without
// waiting on the inference call.
func (h *APIHandler) HandleDeepSearch(c *gin.Context) {
	var req DeepSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	task, err := h.coordinator.ExecuteSearchAsync(c.Request.Context(), req.ResumeSummary, req.Preferences)
	if err != nil {
		if errors.Is(err, app.ErrInvalidSubmission) {
			h.writeError(c, http.StatusBadRequest, "invalid submission", err)
			return
		}
		h.writeError(c, http.StatusInternalServerError, "failed to start deep search", err)
		return
	}

	h.logger.Info("Deep search task started: %s", task.ID)
	c.JSON(http.StatusOK, TaskResponse{
		TaskID:  task.ID,
		Status:  string(ports.TaskStatePending),
		Message: "Deep research task started",
	})
}

// HandleTaskStatus handles GET /api/task/:task_id.
func (h *APIHandler) HandleTaskStatus(c *gin.Context) {
	taskID := c.Param("task_id")
	if err := validateTaskID(taskID); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid task id", err)
		return
	}

	status, err := h.coordinator.GetStatus(c.Request.Context(), taskID)
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "failed to read task status", err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// HandleUploadResume handles POST /api/upload_resume: extracts text from the
// uploaded document, persists the original and returns the extraction.
func (h *APIHandler) HandleUploadResume(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.writeError(c, http.StatusBadRequest, "file is required", err)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		h.writeError(c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "failed to open upload", err)
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "failed to read upload", err)
		return
	}

	text, err := h.uploads.ExtractText(fileHeader.Filename, content)
	if err != nil {
		if errors.Is(err, resume.ErrUnsupportedType) {
			h.writeError(c, http.StatusBadRequest, "unsupported file type", err)
			return
		}
		h.writeError(c, http.StatusBadRequest, "failed to extract resume text", err)
		return
	}

	key, err := h.uploads.Save(fileHeader.Filename, content)
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "failed to store upload", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": UploadSummary{
		Text:        text,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		StorageKey:  key,
	}})
}

// SummarizeRequest is the body for POST /api/summarize_resume.
type SummarizeRequest struct {
	Text string `json:"text"`
}

// HandleSummarizeResume handles POST /api/summarize_resume: one synchronous
// inference call that distills resume text into structured data.
func (h *APIHandler) HandleSummarizeResume(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.writeError(c, http.StatusBadRequest, "text is required", nil)
		return
	}

	summary, err := h.summarizer.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, http.StatusBadGateway, "failed to summarize resume", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// HandleHealth handles GET /health: runs every registered probe, including
// the throwaway-task queue probe.
func (h *APIHandler) HandleHealth(c *gin.Context) {
	results := h.health.CheckAll(c.Request.Context())

	services := make(map[string]string, len(results))
	for _, r := range results {
		services[r.Name] = string(r.Status)
	}

	if !app.Healthy(results) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"services": services,
			"details":  results,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"services": services,
	})
}
