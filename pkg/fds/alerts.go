package fds

import (
	"context"
	"database/sql"
	"fmt"
)

// GetAlerts returns alerts selected by acknowledgment status, ordered by
// date then id. Unknown status values fail the call.
func (c *Core) GetAlerts(filter AlertFilter) ([]RiskAlert, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := `SELECT id, date, type, severity, message, acknowledged FROM alerts`
	var args []any
	switch filter.Status {
	case AlertStatusActive:
		query += " WHERE acknowledged = 0"
	case AlertStatusAcknowledged:
		query += " WHERE acknowledged = 1"
	}
	query += " ORDER BY date, id"

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query alerts", err)
	}
	defer rows.Close()

	alerts := []RiskAlert{}
	for rows.Next() {
		var a RiskAlert
		var acknowledged int
		if err := rows.Scan(&a.ID, &a.Date, &a.Type, &a.Severity, &a.Message, &acknowledged); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan alert", err)
		}
		a.Acknowledged = acknowledged != 0
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// AcknowledgeAlert marks an alert acknowledged. Acknowledgment is the only
// mutation alerts support.
func (c *Core) AcknowledgeAlert(id string) error {
	result, err := c.db.Exec("UPDATE alerts SET acknowledged = 1 WHERE id = ?", id)
	if err != nil {
		return WrapError(ErrCodeDatabase, "acknowledge alert", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return WrapError(ErrCodeDatabase, "acknowledge alert", err)
	}
	if affected == 0 {
		return NewError(ErrCodeNotFound, fmt.Sprintf("alert %s not found", id))
	}
	return nil
}

// RunRiskCheck evaluates the risk rules against the latest snapshot and
// the current positions, persists any new alerts, and returns the
// evaluation result. Deterministic alert ids make persistence idempotent:
// re-running the check over unchanged state inserts nothing new.
//
// The evaluator fails open: invalid inputs are recorded as a diagnostic
// and yield an empty alert list, never an error to the caller.
func (c *Core) RunRiskCheck() ([]RiskAlert, error) {
	snapshot, err := c.LatestSnapshot()
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return []RiskAlert{}, nil
	}
	positions, err := c.GetPositions()
	if err != nil {
		return nil, err
	}

	alerts, evalErr := EvaluateRisk(*snapshot, positions, c.risk)
	if evalErr != nil {
		c.logger.Warn("risk evaluation skipped on invalid input", "err", evalErr, "snapshot", snapshot.ID)
		c.recordDiagnostic("risk", ErrCodeValidation, evalErr.Error())
		return []RiskAlert{}, nil
	}

	if err := c.saveAlerts(alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// saveAlerts persists evaluator output. Deterministic ids dedupe repeats.
func (c *Core) saveAlerts(alerts []RiskAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	return c.WithTx(context.Background(), func(tx *sql.Tx) error {
		for _, a := range alerts {
			if _, err := tx.Exec(`
				INSERT OR IGNORE INTO alerts (id, date, type, severity, message, acknowledged)
				VALUES (?, ?, ?, ?, ?, ?)`,
				a.ID, a.Date, a.Type, a.Severity, a.Message, boolToInt(a.Acknowledged),
			); err != nil {
				return WrapError(ErrCodeDatabase, "insert alert", err)
			}
		}
		return nil
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
