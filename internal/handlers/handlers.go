package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/store"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// RunStatusReader returns the latest stored report of a sync job
type RunStatusReader interface {
	ReadLastRun(ctx context.Context, job models.Job) (*models.SyncReport, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	store  store.EventStore
	status RunStatusReader
	sports []config.SportConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler creates a new handler with dependencies. status may be nil when
// no Redis is configured.
func NewHandler(st store.EventStore, sports []config.SportConfig, status RunStatusReader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  st,
		status: status,
		sports: sports,
		logger: logger,
		now:    time.Now,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":        true,
		"status":    "healthy",
		"timestamp": h.now().UTC(),
		"service":   "calendar-api",
	})
}

// GetSports lists the configured sports in routing order
func (h *Handler) GetSports(w http.ResponseWriter, r *http.Request) {
	sports := make([]models.SportInfo, 0, len(h.sports))
	for _, s := range h.sports {
		sports = append(sports, models.SportInfo{
			Key:         s.Key,
			Name:        models.DisplayName(s.Key),
			Provider:    string(s.Provider),
			SearchQuery: s.SearchQuery,
		})
	}
	respondJSON(w, http.StatusOK, sports)
}

// GetSyncStatus returns the last report of each sync job
func (h *Handler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	if h.status == nil {
		h.respondError(w, http.StatusServiceUnavailable, "sync status is not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	out := make(map[string]*models.SyncReport)
	for _, job := range []models.Job{models.JobSyncEvents, models.JobSyncF1} {
		report, err := h.status.ReadLastRun(ctx, job)
		if err != nil {
			h.respondError(w, http.StatusInternalServerError, "failed to read sync status", err)
			return
		}
		out[string(job)] = report
	}

	respondJSON(w, http.StatusOK, out)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

// respondError writes an ErrorResponse; server errors carry the underlying message
func (h *Handler) respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		h.logger.Error(message, "status", status, "error", err)
		if status >= http.StatusInternalServerError {
			errResp.Message = message + ": " + err.Error()
		}
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		h.logger.Error("error encoding error response", "error", err)
	}
}
