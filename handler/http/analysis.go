package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shelfscan/src/core/analysis"
	"shelfscan/src/core/jobs"
	"shelfscan/src/infrastructure/log"
)

// AnalysisHandler exposes the asynchronous shelf analysis API.
type AnalysisHandler struct {
	jobs *jobs.Service
}

// NewAnalysisHandler creates the handler on top of the job service.
func NewAnalysisHandler(jobService *jobs.Service) *AnalysisHandler {
	return &AnalysisHandler{jobs: jobService}
}

// RegisterRoutes registers the analysis API routes.
func (h *AnalysisHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/analyze", h.Analyze)
	r.GET("/status/:jobId", h.Status)
	r.DELETE("/cleanup", h.Cleanup)
	r.GET("/health", h.Health)
}

// AnalysisRequest is the submission payload.
type AnalysisRequest struct {
	ImageURL string           `json:"imageUrl" binding:"required,url"`
	ImageID  string           `json:"imageId" binding:"required"`
	Options  *AnalysisOptions `json:"options"`
}

// AnalysisOptions carries per-request knobs. Timeout bounds the image fetch
// in seconds; zero falls back to the 30 second default.
type AnalysisOptions struct {
	Timeout int `json:"timeout"`
}

// AnalysisJob is the response envelope for submissions and status polls.
type AnalysisJob struct {
	Success bool                     `json:"success"`
	JobID   string                   `json:"jobId"`
	Status  string                   `json:"status"`
	Data    []analysis.ProductRecord `json:"data"`
	Error   string                   `json:"error,omitempty"`
}

func analysisJobFrom(job jobs.Job) AnalysisJob {
	data := job.Results
	if data == nil {
		data = []analysis.ProductRecord{}
	}
	return AnalysisJob{
		Success: job.Status == jobs.StatusCompleted,
		JobID:   job.ID,
		Status:  string(job.Status),
		Data:    data,
		Error:   job.Error,
	}
}

// Analyze accepts an analysis request, creates a pending job and schedules
// the background fetch-and-analyze work.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeout := 0
	if req.Options != nil {
		timeout = req.Options.Timeout
	}

	job, err := h.jobs.Submit(req.ImageURL, req.ImageID, timeout)
	if err != nil {
		log.Error(err, "failed to submit analysis job", "image_id", req.ImageID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule analysis"})
		return
	}

	resp := analysisJobFrom(job)
	resp.Success = true
	c.JSON(http.StatusOK, resp)
}

// Status returns the current snapshot of an analysis job.
func (h *AnalysisHandler) Status(c *gin.Context) {
	job, err := h.jobs.Get(c.Param("jobId"))
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read job"})
		return
	}
	c.JSON(http.StatusOK, analysisJobFrom(job))
}

// Cleanup evicts terminal jobs from the registry.
func (h *AnalysisHandler) Cleanup(c *gin.Context) {
	removed, remaining := h.jobs.Cleanup()
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"removed_jobs":   removed,
		"remaining_jobs": remaining,
	})
}

// Health reports service liveness.
func (h *AnalysisHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}
