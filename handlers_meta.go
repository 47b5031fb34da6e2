package main

import (
	"net/http"

	"go.uber.org/zap"
)

// handleLeadTypes returns the normalized lead types that exist in inventory.
func handleLeadTypes(w http.ResponseWriter, r *http.Request) {
	items, err := store.LeadTypes(r.Context())
	if err != nil {
		logger.Error("listing lead types", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "detail": "listing lead types failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "items": items})
}

// handleLeadSample is the simplest "is the store hooked up to the right
// table?" probe.
func handleLeadSample(w http.ResponseWriter, r *http.Request) {
	lead, err := store.Sample(r.Context())
	if err != nil {
		logger.Error("sampling leads", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "detail": "sampling leads failed"})
		return
	}
	if lead == nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "count": 0, "collection": leadsTable})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sample": lead, "collection": leadsTable})
}
