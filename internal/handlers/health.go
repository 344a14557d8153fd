package handlers

import (
	"context"
	"net/http"
	"time"

	"inventory-chat/internal/contextutil"
	"inventory-chat/internal/llm"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModelChecker looks up the configured generation model.
type ModelChecker interface {
	GetModel(ctx context.Context) (llm.ModelInfo, error)
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	inventory          Pinger
	sessions           Pinger
	model              ModelChecker
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. sessions may be nil when the
// conversation log lives in process memory.
func NewHealthHandler(inventory Pinger, sessions Pinger, model ModelChecker) *HealthHandler {
	return &HealthHandler{
		inventory:          inventory,
		sessions:           sessions,
		model:              model,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// An unreachable inventory source marks the service unhealthy; a failing model or
// session store only degrades it.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string
	critical := false

	if err := h.inventory.Ping(checkCtx); err != nil {
		logger.WarnContext(ctx, "inventory health check failed", "error", err)
		checks["inventory"] = "error"
		issues = append(issues, "inventory_unavailable")
		critical = true
	} else {
		checks["inventory"] = "ok"
	}

	if _, err := h.model.GetModel(checkCtx); err != nil {
		logger.WarnContext(ctx, "model health check failed", "error", err)
		checks["model"] = "error"
		issues = append(issues, "model_unavailable")
	} else {
		checks["model"] = "ok"
	}

	if h.sessions != nil {
		if err := h.sessions.Ping(checkCtx); err != nil {
			logger.WarnContext(ctx, "session store health check failed", "error", err)
			checks["sessions"] = "error"
			issues = append(issues, "sessions_unavailable")
		} else {
			checks["sessions"] = "ok"
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	switch {
	case critical:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case len(issues) > 0:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}
	writeJSON(ctx, w, httpStatus, response)
}
