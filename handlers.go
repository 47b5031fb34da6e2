package main

import "net/http"

func handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"service":    cfg.ServiceName,
		"version":    cfg.Version,
		"db":         cfg.DBPath,
		"collection": leadsTable,
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleWhoami answers which build is actually deployed; handy when a stale
// image is suspected.
func handleWhoami(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"file":    "main.go",
		"service": cfg.ServiceName,
		"version": cfg.Version,
	})
}

func handlePricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"pricing": pricing,
	})
}
