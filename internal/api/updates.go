package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sigtune/sigtune/internal/audit"
)

type updateView struct {
	ID           string    `json:"id"`
	Profile      string    `json:"profile"`
	OverrideText string    `json:"override_text"`
	Applied      bool      `json:"applied"`
	RejectReason string    `json:"reject_reason,omitempty"`
	Rendered     string    `json:"rendered"`
	ExperimentID int       `json:"experiment_id"`
	SnapshotRef  string    `json:"snapshot_ref,omitempty"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
}

func viewOf(row audit.UpdateRow) updateView {
	v := updateView{
		ID:           row.ID,
		Profile:      row.Profile,
		OverrideText: row.OverrideText,
		Applied:      row.Applied,
		Rendered:     row.Rendered,
		ExperimentID: row.ExperimentID,
		Source:       row.Source,
		CreatedAt:    row.CreatedAt,
	}
	if row.RejectReason != nil {
		v.RejectReason = *row.RejectReason
	}
	if row.SnapshotRef != nil {
		v.SnapshotRef = *row.SnapshotRef
	}
	return v
}

func (h *Handler) handleListUpdates(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotImplemented, "update history is not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	rows, err := h.history.ListUpdates(r.Context(), h.profile, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list updates: "+err.Error())
		return
	}

	views := make([]updateView, 0, len(rows))
	for _, row := range rows {
		views = append(views, viewOf(row))
	}
	writeJSON(w, http.StatusOK, map[string]any{"updates": views})
}

func (h *Handler) handleGetUpdate(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotImplemented, "update history is not configured")
		return
	}

	row, err := h.history.GetUpdate(r.Context(), r.PathValue("updateID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "update not found: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*row))
}
