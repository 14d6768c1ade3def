package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sigtune/sigtune/pkg/params"
)

type setWeightsRequest struct {
	Weights map[string]string `json:"weights"`
}

// handleSetWeights replaces the frequency weight table wholesale. Weight
// classes form a closed enumeration and are validated here, at the trust
// boundary; the store assumes validated input.
func (h *Handler) handleSetWeights(w http.ResponseWriter, r *http.Request) {
	var req setWeightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	table := make(map[int]params.WeightClass, len(req.Weights))
	for rawFreq, rawClass := range req.Weights {
		freq, err := strconv.Atoi(rawFreq)
		if err != nil || freq <= 0 {
			writeError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("invalid frequency %q: expected a positive integer (MHz)", rawFreq))
			return
		}
		class, ok := params.ParseWeightClass(rawClass)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("invalid weight class %q for %d MHz: expected low or high", rawClass, freq))
			return
		}
		table[freq] = class
	}

	h.store.SetFrequencyWeights(table)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "updated",
		"count":  len(table),
	})
}
