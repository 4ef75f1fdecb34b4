package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fds/pkg/fds"
)

// NewRouter builds the HTTP API router.
func NewRouter(core *fds.Core, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(requestLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{core: core}

	r.Get("/api/health", h.health)

	// Canonical collections
	r.Get("/api/snapshots", h.getSnapshots)
	r.Post("/api/snapshots", h.addSnapshot)
	r.Get("/api/trades", h.getTrades)
	r.Post("/api/trades", h.addTrade)
	r.Get("/api/defi", h.getPositions)
	r.Get("/api/journal", h.getJournal)
	r.Post("/api/journal", h.addJournalEntry)

	// Alerts
	r.Get("/api/alerts", h.getAlerts)
	r.Post("/api/alerts/{id}/acknowledge", h.acknowledgeAlert)
	r.Post("/api/risk/check", h.runRiskCheck)

	// Ingestion
	r.Post("/api/ingest/trades", h.ingestTrades)
	r.Post("/api/ingest/positions", h.ingestPositions)

	// Export projections
	r.Get("/api/export/sheets", h.exportSheets)
	r.Get("/api/export/notion", h.exportNotion)
	r.Get("/api/export/csv/{tab}", h.exportCSV)

	// Diagnostics
	r.Get("/api/diagnostics", h.getDiagnostics)

	return r
}

type handler struct {
	core *fds.Core
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Code: status, Message: message})
}
