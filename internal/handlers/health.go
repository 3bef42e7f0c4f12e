package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tugruldev/lighthouse-quest/internal/services"
)

// LivenessResponse is the static payload served at GET /.
type LivenessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Service    string                 `json:"service"`
	Components map[string]interface{} `json:"components"`
}

// HealthHandler serves GET / (liveness) and GET /health (components).
// Liveness must keep answering even when the LLM credential or the session
// store is missing.
type HealthHandler struct {
	sessions   services.SessionStore
	llmService services.LLMService
	logger     *slog.Logger
}

func NewHealthHandler(sessions services.SessionStore, llmService services.LLMService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		sessions:   sessions,
		llmService: llmService,
		logger:     logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/", "":
		h.serveLiveness(w, r)
	case "/health":
		h.serveHealth(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *HealthHandler) serveLiveness(w http.ResponseWriter, r *http.Request) {
	response := LivenessResponse{
		Status:  "ok",
		Message: "Lighthouse Quest interpretation service is running.",
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding liveness response", "error", err)
	}
}

func (h *HealthHandler) serveHealth(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	components := make(map[string]interface{})
	overallStatus := "healthy"

	if h.llmService == nil {
		components["translator"] = "unconfigured"
		overallStatus = "degraded"
	} else {
		components["translator"] = "configured"
	}

	if h.sessions == nil {
		components["sessions"] = "disabled"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.sessions.Ping(ctx); err != nil {
			h.logger.Warn("Session store health check failed", "error", err)
			components["sessions"] = "unhealthy"
			overallStatus = "degraded"
		} else {
			components["sessions"] = "healthy"
		}
	}

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    "lighthouse-quest",
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding health response", "error", err)
	}
}
