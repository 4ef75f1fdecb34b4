package fds

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
)

// snapshotBalanceTolerance is the floating tolerance for the
// cash + positions == total invariant.
const snapshotBalanceTolerance = 0.01

// AddSnapshot appends a snapshot to the sequence. Snapshots are immutable
// once created; the date is unique per sequence and inserts are
// append-only.
func (c *Core) AddSnapshot(s PortfolioSnapshot) error {
	if !isValidDay(s.Date) {
		return NewError(ErrCodeValidation, fmt.Sprintf("snapshot date %q is not YYYY-MM-DD", s.Date))
	}
	if !isFinite(s.TotalValue) || !isFinite(s.CashBalance) || !isFinite(s.PositionsValue) {
		return NewError(ErrCodeValidation, "snapshot values must be finite")
	}
	if s.DrawdownPct < 0 || !isFinite(s.DrawdownPct) {
		return NewError(ErrCodeValidation, "snapshot drawdownPct must be non-negative")
	}
	if !isValidRiskStatus(s.RiskStatus) {
		return NewError(ErrCodeValidation, fmt.Sprintf("unknown risk status %q", s.RiskStatus))
	}
	if math.Abs(s.CashBalance+s.PositionsValue-s.TotalValue) > snapshotBalanceTolerance {
		return NewError(ErrCodeValidation, fmt.Sprintf(
			"cash %.2f + positions %.2f does not equal total %.2f",
			s.CashBalance, s.PositionsValue, s.TotalValue))
	}
	if s.ID == "" {
		s.ID = "snap-" + s.Date
	}

	_, err := c.db.Exec(`
		INSERT INTO snapshots (
			id, date, total_value, cash_balance, positions_value,
			pnl_usd, pnl_pct, drawdown_pct, risk_status, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Date, s.TotalValue, s.CashBalance, s.PositionsValue,
		s.PnlUsd, s.PnlPct, s.DrawdownPct, s.RiskStatus, s.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return NewError(ErrCodeDuplicate, fmt.Sprintf("snapshot for %s already exists", s.Date))
		}
		return WrapError(ErrCodeDatabase, "insert snapshot", err)
	}
	return nil
}

// GetSnapshots returns snapshots inside the filter's date range, ordered
// by date. The filter is validated first; malformed filters fail the call.
func (c *Core) GetSnapshots(filter DateRangeFilter) ([]PortfolioSnapshot, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := `
		SELECT id, date, total_value, cash_balance, positions_value,
		       pnl_usd, pnl_pct, drawdown_pct, risk_status, notes
		FROM snapshots`
	conditions, args := dateRangeConditions(filter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date"

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query snapshots", err)
	}
	defer rows.Close()

	snapshots := []PortfolioSnapshot{}
	for rows.Next() {
		var s PortfolioSnapshot
		var notes sql.NullString
		if err := rows.Scan(&s.ID, &s.Date, &s.TotalValue, &s.CashBalance, &s.PositionsValue,
			&s.PnlUsd, &s.PnlPct, &s.DrawdownPct, &s.RiskStatus, &notes); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan snapshot", err)
		}
		if notes.Valid {
			s.Notes = &notes.String
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// LatestSnapshot returns the most recent snapshot by date, or nil when the
// sequence is empty.
func (c *Core) LatestSnapshot() (*PortfolioSnapshot, error) {
	var s PortfolioSnapshot
	var notes sql.NullString
	err := c.db.QueryRow(`
		SELECT id, date, total_value, cash_balance, positions_value,
		       pnl_usd, pnl_pct, drawdown_pct, risk_status, notes
		FROM snapshots ORDER BY date DESC LIMIT 1`).
		Scan(&s.ID, &s.Date, &s.TotalValue, &s.CashBalance, &s.PositionsValue,
			&s.PnlUsd, &s.PnlPct, &s.DrawdownPct, &s.RiskStatus, &notes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query latest snapshot", err)
	}
	if notes.Valid {
		s.Notes = &notes.String
	}
	return &s, nil
}

func dateRangeConditions(filter DateRangeFilter) ([]string, []any) {
	var conditions []string
	var args []any
	if filter.From != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.To)
	}
	return conditions, args
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
