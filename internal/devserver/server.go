// Package devserver is a small job backend for local development. It serves
// the job resource the dashboard consumes from a SQLite file.
package devserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bekirdag/jobdesk/internal/job"
)

type Handler struct {
	store   *Store
	metrics *Metrics
	logger  *slog.Logger
}

func NewHandler(store *Store, metrics *Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// NewRouter wires the job routes, health and metrics endpoints.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger(), h.metrics.Middleware())

	router.GET("/jobs", h.ListJobs)
	router.POST("/jobs", h.CreateJob)
	router.GET("/jobs/:id", h.GetJob)
	router.PATCH("/jobs/:id", h.UpdateStatus)
	router.DELETE("/jobs/:id", h.DeleteJob)

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return router
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		h.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(started),
		)
	}
}

func (h *Handler) ListJobs(c *gin.Context) {
	jobs, err := h.store.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) GetJob(c *gin.Context) {
	j, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

type CreateJobRequest struct {
	ID           string     `json:"id"`
	SKU          string     `json:"sku" binding:"required"`
	Status       job.Status `json:"status"`
	AssignedUser string     `json:"assignedUser"`
	CreateAt     string     `json:"createAt"`
	Details      string     `json:"details"`
}

func (h *Handler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	if req.CreateAt != "" {
		if _, ok := job.ParseTimestamp(req.CreateAt); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid createAt"})
			return
		}
	}

	created, err := h.store.Create(c.Request.Context(), job.Job{
		ID:           req.ID,
		SKU:          req.SKU,
		Status:       req.Status,
		AssignedUser: req.AssignedUser,
		CreateAt:     req.CreateAt,
		Details:      req.Details,
	})
	if err != nil {
		h.internalError(c, err)
		return
	}
	h.metrics.jobCreated(created.Status)
	c.JSON(http.StatusCreated, created)
}

type UpdateStatusRequest struct {
	Status job.Status `json:"status" binding:"required"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	updated, err := h.store.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.metrics.jobStatusChanged(updated.Status)
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteJob(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.storeError(c, err)
		return
	}
	h.metrics.jobDeleted()
	c.Status(http.StatusNoContent)
}

func (h *Handler) Health(c *gin.Context) {
	counts, err := h.store.CountByStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "jobs": counts})
}

func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	h.internalError(c, err)
}

func (h *Handler) internalError(c *gin.Context, err error) {
	h.logger.Error("job store failure", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
