package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// Check probes one dependency
type Check func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
	started time.Time
}

// NewHealthHandler creates a new HealthHandler. checks are run by the readiness endpoints.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second, started: time.Now()}
}

// DependencyStatus is the outcome of one check
type DependencyStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

func (h *HealthHandler) run(ctx context.Context) ([]DependencyStatus, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	healthy := true
	statuses := make([]DependencyStatus, 0, len(names))
	for _, name := range names {
		start := time.Now()
		err := h.checks[name](ctx)
		st := DependencyStatus{Name: name, Healthy: err == nil, Latency: time.Since(start).String()}
		if err != nil {
			st.Error = err.Error()
			healthy = false
		}
		statuses = append(statuses, st)
	}
	return statuses, healthy
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"status": "ok"}, "")
}

// Live handles GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"status": "alive"}, "")
}

// Ready handles GET /health/ready. 503 until every dependency answers.
func (h *HealthHandler) Ready(c *gin.Context) {
	if _, healthy := h.run(c.Request.Context()); !healthy {
		respondError(c, http.StatusServiceUnavailable, "Service not ready")
		return
	}
	respond(c, http.StatusOK, gin.H{"status": "ready"}, "")
}

// Detailed handles GET /health/detailed
func (h *HealthHandler) Detailed(c *gin.Context) {
	statuses, healthy := h.run(c.Request.Context())
	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, models.Response{
		Success: healthy,
		Data: gin.H{
			"status":       status,
			"uptime":       time.Since(h.started).Round(time.Second).String(),
			"goroutines":   runtime.NumGoroutine(),
			"dependencies": statuses,
		},
	})
}
