package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/model-health-monitor/internal/fallback"
	"github.com/angeloszaimis/model-health-monitor/internal/metrics"
	"github.com/angeloszaimis/model-health-monitor/internal/registry"
)

// ModelHandler exposes registry state and interview start over HTTP.
type ModelHandler struct {
	logger           *slog.Logger
	registry         *registry.Registry
	selector         *fallback.Selector
	metricsCollector *metrics.Collector
}

type removeResponse struct {
	Success bool `json:"success"`
}

type interviewRequest struct {
	ModelID string `json:"model_id"`
}

func NewModelHandler(
	logger *slog.Logger,
	reg *registry.Registry,
	selector *fallback.Selector,
	collector *metrics.Collector,
) *ModelHandler {
	return &ModelHandler{
		logger:           logger,
		registry:         reg,
		selector:         selector,
		metricsCollector: collector,
	}
}

// ListModels returns all registered models in registration order.
func (h *ModelHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r)

	writeJSON(w, http.StatusOK, h.registry.List())
}

// RemoveModel deletes a model from the registry irrevocably.
func (h *ModelHandler) RemoveModel(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r)

	id := r.PathValue("id")
	removed := h.registry.Remove(id)

	if removed {
		h.logger.Info("Model removed", slog.String("model", id))
		h.emitEvent(metrics.MetricEvent{
			Type:      metrics.EventModelRemoved,
			Timestamp: time.Now(),
			Model:     id,
		})
	}

	writeJSON(w, http.StatusOK, removeResponse{Success: removed})
}

// StartInterview runs fallback selection for the requested model and
// returns the full decision trail.
func (h *ModelHandler) StartInterview(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r)

	var req interviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ModelID == "" {
		http.Error(w, "model_id is required", http.StatusBadRequest)
		return
	}

	result := h.selector.Use(r.Context(), req.ModelID)

	status := http.StatusOK
	if !result.Successful {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, result)
}

func (h *ModelHandler) logRequest(r *http.Request) {
	h.logger.Info("Received request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("from", r.RemoteAddr),
		slog.String("user_agent", r.UserAgent()))
}

func (h *ModelHandler) emitEvent(event metrics.MetricEvent) {
	if h.metricsCollector == nil {
		return
	}

	h.metricsCollector.Emit(event)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
