package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// timeNow is swapped out in tests to pin bucket arithmetic.
var timeNow = time.Now

// handleLeadsSearch ranks inventory by boost score. Selectors do not filter:
// all inventory returns unless only_available is set, and matching rows are
// pushed to the top instead.
func handleLeadsSearch(w http.ResponseWriter, r *http.Request) {
	var payload searchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "detail": "invalid request body"})
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"ok": false, "detail": err.Error()})
		return
	}

	res, err := store.Search(r.Context(), req, pricing, timeNow())
	if err != nil {
		logger.Error("lead search failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "detail": fmt.Sprintf("search failed: %v", err)})
		return
	}

	boosts := Boosts{Bucket: normBucket(req.Bucket)}
	if v := normType(req.LeadTypeNorm); v != "" {
		boosts.LeadTypeNorm = &v
	}
	if v := normState(req.State); v != "" {
		boosts.State = &v
	}
	if v := normZip(req.Zip); v != "" {
		boosts.Zip = &v
	}

	baseMatch := map[string]any{}
	if req.OnlyAvailable {
		baseMatch["status"] = "Available"
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		OK:         true,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      res.Total,
		Items:      res.Items,
		Collection: leadsTable,
		Boosts:     boosts,
		BaseMatch:  baseMatch,
	})
}
