package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fds/pkg/fds"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Canonical collections.

func (h *handler) getSnapshots(w http.ResponseWriter, r *http.Request) {
	filter := dateRangeFromQuery(r)
	result, err := h.core.GetSnapshots(filter)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, result)
}

func (h *handler) addSnapshot(w http.ResponseWriter, r *http.Request) {
	var snapshot fds.PortfolioSnapshot
	if err := decodeJSON(r, &snapshot); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.core.AddSnapshot(snapshot); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccessWithMessage(w, "snapshot recorded", nil)
}

func (h *handler) getTrades(w http.ResponseWriter, r *http.Request) {
	filter := fds.TradeFilter{
		DateRangeFilter: dateRangeFromQuery(r),
		Symbol:          r.URL.Query().Get("symbol"),
	}
	result, err := h.core.GetTrades(filter)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, result)
}

func (h *handler) addTrade(w http.ResponseWriter, r *http.Request) {
	var trade fds.Trade
	if err := decodeJSON(r, &trade); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.core.AddTrade(trade); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, map[string]string{"id": trade.ID})
}

func (h *handler) getPositions(w http.ResponseWriter, r *http.Request) {
	result, err := h.core.GetPositions()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, result)
}

func (h *handler) getJournal(w http.ResponseWriter, r *http.Request) {
	result, err := h.core.GetJournal(dateRangeFromQuery(r))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, result)
}

func (h *handler) addJournalEntry(w http.ResponseWriter, r *http.Request) {
	var entry fds.JournalEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.core.AddJournalEntry(entry); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccessWithMessage(w, "journal entry recorded", nil)
}

// Alerts.

func (h *handler) getAlerts(w http.ResponseWriter, r *http.Request) {
	filter := fds.AlertFilter{Status: r.URL.Query().Get("status")}
	result, err := h.core.GetAlerts(filter)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, result)
}

func (h *handler) acknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.core.AcknowledgeAlert(id); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccessWithMessage(w, "alert acknowledged", map[string]string{"id": id})
}

func (h *handler) runRiskCheck(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.core.RunRiskCheck()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, alerts)
}

// Ingestion.

func (h *handler) ingestTrades(w http.ResponseWriter, r *http.Request) {
	var payload ingestTradesPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.core.IngestTrades(payload.Trades)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, result)
}

func (h *handler) ingestPositions(w http.ResponseWriter, r *http.Request) {
	var payload ingestPositionsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	positions, err := h.core.RefreshPositions(payload.Positions)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, positions)
}

// Export projections.

func (h *handler) exportSheets(w http.ResponseWriter, r *http.Request) {
	data, err := h.core.GetDataset()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, fds.BuildSheetsExport(data))
}

func (h *handler) exportNotion(w http.ResponseWriter, r *http.Request) {
	data, err := h.core.GetDataset()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, fds.BuildNotionExport(data))
}

func (h *handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	tab := chi.URLParam(r, "tab")
	if _, ok := fds.SheetHeaders[tab]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown export tab %q", tab))
		return
	}
	data, err := h.core.GetDataset()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	export := fds.BuildSheetsExport(data)
	csv := fds.ToCSV(export[tab])

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tab+".csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}

// Diagnostics.

func (h *handler) getDiagnostics(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
	result, err := h.core.GetDiagnostics(limit)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, result)
}

// Helpers.

func dateRangeFromQuery(r *http.Request) fds.DateRangeFilter {
	query := r.URL.Query()
	return fds.DateRangeFilter{
		From: query.Get("from"),
		To:   query.Get("to"),
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}
