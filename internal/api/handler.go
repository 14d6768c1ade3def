// Package api implements the sigtuned control-plane API: applying parameter
// overrides, inspecting the active configuration, setting frequency weights,
// and browsing update history.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/sigtune/sigtune/internal/audit"
	"github.com/sigtune/sigtune/pkg/params"
)

// UpdateRecorder abstracts the audit history so the API package does not
// depend on a concrete Postgres-backed implementation.
type UpdateRecorder interface {
	RecordUpdate(ctx context.Context, a audit.Attempt) (*audit.UpdateRow, error)
	ListUpdates(ctx context.Context, profile string, limit int) ([]audit.UpdateRow, error)
	GetUpdate(ctx context.Context, id string) (*audit.UpdateRow, error)
}

// SnapshotArchiver stores rendered snapshots of applied configurations.
type SnapshotArchiver interface {
	PutSnapshot(ctx context.Context, profile, snapshotID string, data []byte) error
}

// Handler is the top-level API handler for the sigtuned service.
type Handler struct {
	store   *params.Store
	history UpdateRecorder
	archive SnapshotArchiver
	profile string
	logger  *log.Logger
}

// NewHandler creates a new API handler. History and archive may be nil, in
// which case updates are applied but not recorded (useful for tests and
// storage-less deployments).
func NewHandler(store *params.Store, history UpdateRecorder, archive SnapshotArchiver, profile string, logger *log.Logger) *Handler {
	if profile == "" {
		profile = "default"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		store:   store,
		history: history,
		archive: archive,
		profile: profile,
		logger:  logger,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Write endpoints (auth-protected)
	mux.HandleFunc("POST /api/v1/params", h.handleApplyOverride)
	mux.HandleFunc("PUT /api/v1/params/weights", h.handleSetWeights)

	// Read endpoints
	mux.HandleFunc("GET /api/v1/params", h.handleGetParams)
	mux.HandleFunc("GET /api/v1/params/thresholds", h.handleThresholds)
	mux.HandleFunc("GET /api/v1/updates", h.handleListUpdates)
	mux.HandleFunc("GET /api/v1/updates/{updateID}", h.handleGetUpdate)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
