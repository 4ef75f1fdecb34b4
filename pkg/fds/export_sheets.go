package fds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Sheet tab names. The header list per tab is a published external
// contract: renaming any column is a breaking change.
const (
	TabPortfolioMetrics = "portfolio_metrics"
	TabTradeLog         = "trade_log"
	TabDefiPositions    = "defi_positions"
	TabRiskAlerts       = "risk_alerts"
	TabAiJournal        = "ai_journal"
)

// SheetTabs lists the tabs in export order.
var SheetTabs = []string{
	TabPortfolioMetrics,
	TabTradeLog,
	TabDefiPositions,
	TabRiskAlerts,
	TabAiJournal,
}

// SheetHeaders is the published column contract per tab, in column order.
var SheetHeaders = map[string][]string{
	TabPortfolioMetrics: {"Date", "Total Value", "Cash Balance", "Positions Value", "PnL ($)", "PnL (%)", "Drawdown (%)", "Risk Status"},
	TabTradeLog:         {"ID", "Date", "Symbol", "Side", "Amount", "Price", "Total ($)", "Status"},
	TabDefiPositions:    {"Protocol", "Chain", "Asset", "Type", "Amount", "USD Value", "APY (%)"},
	TabRiskAlerts:       {"Date", "Type", "Severity", "Message", "Acknowledged"},
	TabAiJournal:        {"Entry Date", "Summary", "Risk Commentary", "Discipline Notes", "Tomorrow Focus", "Snapshot Date"},
}

// SheetRow is a flat export record that preserves column order. JSON
// marshaling emits the columns in insertion order.
type SheetRow struct {
	keys   []string
	values map[string]any
}

func newSheetRow(capacity int) SheetRow {
	return SheetRow{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

func (r *SheetRow) set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Keys returns the column names in order.
func (r SheetRow) Keys() []string {
	return r.keys
}

// Value returns the value stored under key.
func (r SheetRow) Value(key string) any {
	return r.values[key]
}

// MarshalJSON emits an object with keys in column order.
func (r SheetRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SheetsExport maps sheet tab names to ordered row sequences.
type SheetsExport map[string][]SheetRow

// BuildSheetsExport projects the canonical dataset onto the flat
// spreadsheet schema. It is a pure function of its input and shares no
// code with the hierarchical export: the two contracts version
// independently.
func BuildSheetsExport(data *Dataset) SheetsExport {
	export := SheetsExport{
		TabPortfolioMetrics: make([]SheetRow, 0, len(data.Snapshots)),
		TabTradeLog:         make([]SheetRow, 0, len(data.Trades)),
		TabDefiPositions:    make([]SheetRow, 0, len(data.DefiPositions)),
		TabRiskAlerts:       make([]SheetRow, 0, len(data.Alerts)),
		TabAiJournal:        make([]SheetRow, 0, len(data.Journal)),
	}

	for _, s := range data.Snapshots {
		row := newSheetRow(8)
		row.set("Date", s.Date)
		row.set("Total Value", s.TotalValue)
		row.set("Cash Balance", s.CashBalance)
		row.set("Positions Value", s.PositionsValue)
		row.set("PnL ($)", s.PnlUsd)
		row.set("PnL (%)", s.PnlPct)
		row.set("Drawdown (%)", s.DrawdownPct)
		row.set("Risk Status", s.RiskStatus)
		export[TabPortfolioMetrics] = append(export[TabPortfolioMetrics], row)
	}

	for _, t := range data.Trades {
		row := newSheetRow(8)
		row.set("ID", t.ID)
		row.set("Date", t.Date)
		row.set("Symbol", t.Symbol)
		row.set("Side", t.Side)
		row.set("Amount", t.Amount)
		row.set("Price", t.Price)
		row.set("Total ($)", t.TotalUsd)
		row.set("Status", t.Status)
		export[TabTradeLog] = append(export[TabTradeLog], row)
	}

	for _, p := range data.DefiPositions {
		row := newSheetRow(7)
		row.set("Protocol", p.Protocol)
		row.set("Chain", p.Chain)
		row.set("Asset", p.Asset)
		row.set("Type", p.Type)
		row.set("Amount", p.Amount)
		row.set("USD Value", p.UsdValue)
		row.set("APY (%)", p.Apy)
		export[TabDefiPositions] = append(export[TabDefiPositions], row)
	}

	for _, a := range data.Alerts {
		row := newSheetRow(5)
		row.set("Date", a.Date)
		row.set("Type", a.Type)
		row.set("Severity", a.Severity)
		row.set("Message", a.Message)
		row.set("Acknowledged", a.Acknowledged)
		export[TabRiskAlerts] = append(export[TabRiskAlerts], row)
	}

	for _, j := range data.Journal {
		row := newSheetRow(6)
		row.set("Entry Date", j.Date)
		row.set("Summary", j.Summary)
		row.set("Risk Commentary", j.RiskCommentary)
		row.set("Discipline Notes", j.DisciplineNotes)
		row.set("Tomorrow Focus", j.TomorrowFocus)
		// Journal entries are written the day they cover.
		row.set("Snapshot Date", j.Date)
		export[TabAiJournal] = append(export[TabAiJournal], row)
	}

	return export
}

// ToCSV serializes a row sequence to a comma-separated text table. String
// fields are quoted with embedded quotes doubled; other field types are
// emitted unquoted. An empty sequence serializes to an empty string, not a
// header-only table.
func ToCSV(rows []SheetRow) string {
	if len(rows) == 0 {
		return ""
	}
	headers := rows[0].Keys()
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, row := range rows {
		fields := make([]string, 0, len(headers))
		for _, header := range headers {
			fields = append(fields, csvField(row.Value(header)))
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

func csvField(value any) string {
	switch v := value.(type) {
	case string:
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
