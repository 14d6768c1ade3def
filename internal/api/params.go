package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/sigtune/sigtune/internal/audit"
	"github.com/sigtune/sigtune/pkg/params"
)

type applyRequest struct {
	Override string `json:"override"`
}

type applyResponse struct {
	Status     string `json:"status"`
	Rendered   string `json:"rendered"`
	UpdateID   string `json:"update_id,omitempty"`
	SnapshotID string `json:"snapshot_id,omitempty"`
}

// handleApplyOverride runs the parse-validate-swap pipeline for an override
// string. Rejections report the reason with a 422; the active configuration
// is untouched. Recording and archiving happen after a successful swap, so
// their failures are logged rather than surfaced: the update already took
// effect.
func (h *Handler) handleApplyOverride(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sanitized := params.Sanitize(req.Override)

	if err := h.store.Apply(req.Override); err != nil {
		h.recordAttempt(r, audit.Attempt{
			Profile:      h.profile,
			OverrideText: sanitized,
			Applied:      false,
			RejectReason: err.Error(),
			Rendered:     h.store.Render(),
			ExperimentID: h.store.ExperimentID(),
			Source:       "api",
		})
		status := http.StatusUnprocessableEntity
		if errors.Is(err, params.ErrGrammar) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "override rejected: "+err.Error())
		return
	}

	rendered := h.store.Render()

	var snapshotID string
	if h.archive != nil {
		snapshotID = uuid.NewString()
		if err := h.archive.PutSnapshot(r.Context(), h.profile, snapshotID, []byte(rendered)); err != nil {
			h.logger.Printf("archive snapshot %s: %v", snapshotID, err)
			snapshotID = ""
		}
	}

	row := h.recordAttempt(r, audit.Attempt{
		Profile:      h.profile,
		OverrideText: sanitized,
		Applied:      true,
		Rendered:     rendered,
		ExperimentID: h.store.ExperimentID(),
		SnapshotRef:  snapshotID,
		Source:       "api",
	})

	resp := applyResponse{
		Status:     "applied",
		Rendered:   rendered,
		SnapshotID: snapshotID,
	}
	if row != nil {
		resp.UpdateID = row.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// recordAttempt writes one audit row, tolerating a missing or failing
// history backend.
func (h *Handler) recordAttempt(r *http.Request, a audit.Attempt) *audit.UpdateRow {
	if h.history == nil {
		return nil
	}
	row, err := h.history.RecordUpdate(r.Context(), a)
	if err != nil {
		h.logger.Printf("record update attempt: %v", err)
		return nil
	}
	return row
}

type paramsResponse struct {
	Profile      string            `json:"profile"`
	Rendered     string            `json:"rendered"`
	ExperimentID int               `json:"experiment_id"`
	Weights      map[string]string `json:"frequency_weights"`
}

func (h *Handler) handleGetParams(w http.ResponseWriter, r *http.Request) {
	weights := map[string]string{}
	for freq, class := range h.store.FrequencyWeights() {
		weights[strconv.Itoa(freq)] = class.String()
	}
	writeJSON(w, http.StatusOK, paramsResponse{
		Profile:      h.profile,
		Rendered:     h.store.Render(),
		ExperimentID: h.store.ExperimentID(),
		Weights:      weights,
	})
}

type thresholdsResponse struct {
	Frequency      int    `json:"frequency"`
	Band           string `json:"band"`
	Exit           int    `json:"exit"`
	Entry          int    `json:"entry"`
	Sufficient     int    `json:"sufficient"`
	Good           int    `json:"good"`
	FrequencyScore int    `json:"frequency_score"`
}

func (h *Handler) handleThresholds(w http.ResponseWriter, r *http.Request) {
	freq, err := strconv.Atoi(r.URL.Query().Get("frequency"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "frequency must be an integer (MHz)")
		return
	}

	band, _ := params.BandForFrequency(freq)
	writeJSON(w, http.StatusOK, thresholdsResponse{
		Frequency:      freq,
		Band:           band.String(),
		Exit:           h.store.ExitRSSI(freq),
		Entry:          h.store.EntryRSSI(freq),
		Sufficient:     h.store.SufficientRSSI(freq),
		Good:           h.store.GoodRSSI(freq),
		FrequencyScore: h.store.FrequencyScore(freq),
	})
}
