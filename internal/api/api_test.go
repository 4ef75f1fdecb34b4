package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"fds/pkg/fds"
)

func setupRouter(t *testing.T) (http.Handler, *fds.Core) {
	t.Helper()
	return setupRouterWithLogger(t, discardLogger())
}

func setupRouterWithLogger(t *testing.T, logger *slog.Logger) (http.Handler, *fds.Core) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	core, err := fds.OpenWithOptions(fds.Options{DBPath: dbPath, Logger: logger})
	if err != nil {
		t.Fatalf("open core: %v", err)
	}
	t.Cleanup(func() {
		_ = core.Close()
	})

	return NewRouter(core, logger), core
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func doJSON(t *testing.T, h http.Handler, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return doRequest(h, method, target, bytes.NewReader(data))
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var resp struct {
		Code int             `json:"code"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if resp.Code != 0 {
		t.Fatalf("expected code 0, got %d", resp.Code)
	}
	if dst == nil {
		return
	}
	if err := json.Unmarshal(resp.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func snapshotPayload(date string) fds.PortfolioSnapshot {
	return fds.PortfolioSnapshot{
		Date:           date,
		TotalValue:     100000,
		CashBalance:    20000,
		PositionsValue: 80000,
		PnlUsd:         0,
		PnlPct:         0,
		DrawdownPct:    0,
		RiskStatus:     fds.RiskStatusSafe,
	}
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t)
	rr := doRequest(router, http.MethodGet, "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestSnapshotsRoundTrip(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/snapshots", snapshotPayload("2024-03-01"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(router, http.MethodGet, "/api/snapshots", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var snapshots []fds.PortfolioSnapshot
	decodeData(t, rr, &snapshots)
	if len(snapshots) != 1 || snapshots[0].Date != "2024-03-01" {
		t.Fatalf("unexpected snapshots: %+v", snapshots)
	}
}

func TestSnapshotsDuplicateDateConflicts(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/snapshots", snapshotPayload("2024-03-01"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rr = doJSON(t, router, http.MethodPost, "/api/snapshots", snapshotPayload("2024-03-01"))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.ErrorCode != string(fds.ErrCodeDuplicate) {
		t.Fatalf("expected DUPLICATE, got %q", resp.ErrorCode)
	}
}

func TestSnapshotsMalformedFilterFailsClosed(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodGet, "/api/snapshots?from=March+1st", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.ErrorCode != string(fds.ErrCodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %q", resp.ErrorCode)
	}
}

func TestTradesRoundTripAndFilter(t *testing.T) {
	router, _ := setupRouter(t)

	trades := []fds.Trade{
		{ID: "t-1", Date: "2024-03-01", Symbol: "SOL-USD", Side: fds.SideBuy, Amount: 2, Price: 100, TotalUsd: 200, Status: "FILLED"},
		{ID: "t-2", Date: "2024-03-02", Symbol: "ETH-USD", Side: fds.SideSell, Amount: 1, Price: 3000, TotalUsd: 3000, Status: "FILLED"},
	}
	for _, trade := range trades {
		rr := doJSON(t, router, http.MethodPost, "/api/trades", trade)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200 adding %s, got %d: %s", trade.ID, rr.Code, rr.Body.String())
		}
	}

	rr := doRequest(router, http.MethodGet, "/api/trades?symbol=SOL", nil)
	var got []fds.Trade
	decodeData(t, rr, &got)
	if len(got) != 1 || got[0].ID != "t-1" {
		t.Fatalf("unexpected filtered trades: %+v", got)
	}

	rr = doRequest(router, http.MethodGet, "/api/trades?from=2024-03-02&to=2024-03-02", nil)
	got = nil
	decodeData(t, rr, &got)
	if len(got) != 1 || got[0].ID != "t-2" {
		t.Fatalf("unexpected ranged trades: %+v", got)
	}
}

func TestAddTradeRejectsUnknownSide(t *testing.T) {
	router, _ := setupRouter(t)

	trade := fds.Trade{ID: "t-1", Date: "2024-03-01", Symbol: "SOL-USD", Side: "TRANSFER", Amount: 2, Price: 100}
	rr := doJSON(t, router, http.MethodPost, "/api/trades", trade)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestJournalRoundTrip(t *testing.T) {
	router, _ := setupRouter(t)

	entry := fds.JournalEntry{
		Date:            "2024-03-01",
		Summary:         "Quiet session",
		RiskCommentary:  "No threshold breaches",
		DisciplineNotes: "Stuck to plan",
		TomorrowFocus:   "Review SOL exposure",
	}
	rr := doJSON(t, router, http.MethodPost, "/api/journal", entry)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(router, http.MethodGet, "/api/journal", nil)
	var got []fds.JournalEntry
	decodeData(t, rr, &got)
	if len(got) != 1 || got[0].Summary != "Quiet session" {
		t.Fatalf("unexpected journal: %+v", got)
	}
}

func TestIngestTradesEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	payload := ingestTradesPayload{Trades: []fds.RawTrade{
		{TxHash: "0xabc", Timestamp: 1672531200, Pair: "SOL_USDC", Type: "buy", AmountIn: "2", PriceUsd: "10.5"},
		{TxHash: "0xdef", Timestamp: 1672531200, Pair: "ETH_USDC", Type: "sell", AmountIn: "not-a-number", PriceUsd: "3000"},
	}}
	rr := doJSON(t, router, http.MethodPost, "/api/ingest/trades", payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var result fds.IngestResult
	decodeData(t, rr, &result)
	if len(result.Trades) != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected ingest result: %+v", result)
	}
	if result.Trades[0].Symbol != "SOL-USDC" {
		t.Fatalf("expected normalized symbol, got %q", result.Trades[0].Symbol)
	}
}

func TestIngestPositionsEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	payload := ingestPositionsPayload{Positions: []fds.RawPosition{
		{ProtocolID: "aave-v3", ChainID: 1, TokenSymbol: "USDC", BalanceRaw: "1000000", UsdPrice: 1, Decimals: 6},
	}}
	rr := doJSON(t, router, http.MethodPost, "/api/ingest/positions", payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(router, http.MethodGet, "/api/defi", nil)
	var positions []fds.DefiPosition
	decodeData(t, rr, &positions)
	if len(positions) != 1 || positions[0].Chain != "Mainnet" {
		t.Fatalf("unexpected positions: %+v", positions)
	}
}

func TestRiskCheckAndAlertLifecycle(t *testing.T) {
	router, core := setupRouter(t)

	snapshot := snapshotPayload("2024-03-01")
	snapshot.DrawdownPct = 6
	snapshot.RiskStatus = fds.RiskStatusCritical
	if err := core.AddSnapshot(snapshot); err != nil {
		t.Fatalf("add snapshot: %v", err)
	}

	rr := doRequest(router, http.MethodPost, "/api/risk/check", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var alerts []fds.RiskAlert
	decodeData(t, rr, &alerts)
	if len(alerts) == 0 {
		t.Fatalf("expected alerts from drawdown breach")
	}

	rr = doRequest(router, http.MethodGet, "/api/alerts?status=active", nil)
	var active []fds.RiskAlert
	decodeData(t, rr, &active)
	if len(active) != len(alerts) {
		t.Fatalf("expected %d active alerts, got %d", len(alerts), len(active))
	}

	rr = doRequest(router, http.MethodPost, "/api/alerts/"+alerts[0].ID+"/acknowledge", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(router, http.MethodGet, "/api/alerts?status=acknowledged", nil)
	var acked []fds.RiskAlert
	decodeData(t, rr, &acked)
	if len(acked) != 1 || acked[0].ID != alerts[0].ID {
		t.Fatalf("unexpected acknowledged alerts: %+v", acked)
	}
}

func TestAcknowledgeUnknownAlert(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodPost, "/api/alerts/alert-missing/acknowledge", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAlertsUnknownStatusFailsClosed(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodGet, "/api/alerts?status=resolved", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestExportSheetsEndpoint(t *testing.T) {
	router, core := setupRouter(t)
	if err := core.AddSnapshot(snapshotPayload("2024-03-01")); err != nil {
		t.Fatalf("add snapshot: %v", err)
	}

	rr := doRequest(router, http.MethodGet, "/api/export/sheets", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var export map[string][]json.RawMessage
	decodeData(t, rr, &export)
	for _, tab := range fds.SheetTabs {
		if _, ok := export[tab]; !ok {
			t.Fatalf("missing tab %q in export", tab)
		}
	}
	if len(export[fds.TabPortfolioMetrics]) != 1 {
		t.Fatalf("expected one metrics row, got %d", len(export[fds.TabPortfolioMetrics]))
	}
}

func TestExportNotionEndpoint(t *testing.T) {
	router, core := setupRouter(t)
	if err := core.AddSnapshot(snapshotPayload("2024-03-01")); err != nil {
		t.Fatalf("add snapshot: %v", err)
	}

	rr := doRequest(router, http.MethodGet, "/api/export/notion", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"Portfolio Metrics"`) {
		t.Fatalf("expected metrics database in export, got %s", body)
	}
	if !strings.Contains(body, `"date":{"start":"2024-03-01"}`) {
		t.Fatalf("expected date property envelope, got %s", body)
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	router, core := setupRouter(t)
	if err := core.AddSnapshot(snapshotPayload("2024-03-01")); err != nil {
		t.Fatalf("add snapshot: %v", err)
	}

	rr := doRequest(router, http.MethodGet, "/api/export/csv/portfolio_metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if contentType := rr.Header().Get("Content-Type"); !strings.HasPrefix(contentType, "text/csv") {
		t.Fatalf("expected csv content type, got %q", contentType)
	}
	lines := strings.Split(strings.TrimRight(rr.Body.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Date,Total Value") {
		t.Fatalf("unexpected header: %q", lines[0])
	}

	rr = doRequest(router, http.MethodGet, "/api/export/csv/no_such_tab", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown tab, got %d", rr.Code)
	}
}

func TestDiagnosticsEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	payload := ingestTradesPayload{Trades: []fds.RawTrade{
		{TxHash: "0xbad", Timestamp: 1672531200, Pair: "SOL_USDC", Type: "buy", AmountIn: "2", PriceUsd: "garbage"},
	}}
	rr := doJSON(t, router, http.MethodPost, "/api/ingest/trades", payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = doRequest(router, http.MethodGet, "/api/diagnostics", nil)
	var diags []fds.Diagnostic
	decodeData(t, rr, &diags)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
	if diags[0].Code != string(fds.ErrCodeNormalizationGap) {
		t.Fatalf("unexpected diagnostic code: %q", diags[0].Code)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodPost, "/api/trades", strings.NewReader(`{"bogus":true}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
