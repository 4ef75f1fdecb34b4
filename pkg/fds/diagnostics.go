package fds

import "database/sql"

// Diagnostic is an audit record of a fail-open event: a risk evaluation
// skipped on invalid input, or a provider record the normalizer could not
// map. Diagnostics exist so that quiet failures stay observable.
type Diagnostic struct {
	ID        int64   `json:"id"`
	Component string  `json:"component"`
	Code      string  `json:"code"`
	Detail    *string `json:"detail"`
	CreatedAt *string `json:"created_at"`
}

func (c *Core) recordDiagnostic(component string, code ErrorCode, detail string) {
	_, err := c.db.Exec(
		"INSERT INTO diagnostics (component, code, detail) VALUES (?, ?, ?)",
		component, string(code), stringPtr(detail),
	)
	if err != nil {
		// Diagnostics must never fail the operation that emitted them.
		c.logger.Error("failed to record diagnostic", "component", component, "code", code, "err", err)
	}
}

// GetDiagnostics returns the most recent diagnostics, newest first.
func (c *Core) GetDiagnostics(limit int) ([]Diagnostic, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := c.db.Query(`
		SELECT id, component, code, detail, created_at
		FROM diagnostics ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query diagnostics", err)
	}
	defer rows.Close()

	diagnostics := []Diagnostic{}
	for rows.Next() {
		var d Diagnostic
		var detail, createdAt sql.NullString
		if err := rows.Scan(&d.ID, &d.Component, &d.Code, &detail, &createdAt); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan diagnostic", err)
		}
		if detail.Valid {
			d.Detail = &detail.String
		}
		if createdAt.Valid {
			d.CreatedAt = &createdAt.String
		}
		diagnostics = append(diagnostics, d)
	}
	return diagnostics, rows.Err()
}
