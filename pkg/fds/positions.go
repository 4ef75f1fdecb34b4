package fds

import (
	"context"
	"database/sql"
	"fmt"
)

// ReplacePositions swaps the whole DeFi position collection for the given
// one. Positions represent current state, not history: refreshes replace
// wholesale, nothing is diffed.
func (c *Core) ReplacePositions(positions []DefiPosition) error {
	for _, p := range positions {
		if err := validatePosition(p); err != nil {
			return err
		}
	}

	return c.WithTx(context.Background(), func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM defi_positions"); err != nil {
			return WrapError(ErrCodeDatabase, "clear positions", err)
		}
		for _, p := range positions {
			if _, err := tx.Exec(`
				INSERT INTO defi_positions (id, protocol, chain, asset, type, amount, usd_value, apy, health_factor)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.ID, p.Protocol, p.Chain, p.Asset, p.Type, p.Amount, p.UsdValue, p.Apy, p.HealthFactor,
			); err != nil {
				return WrapError(ErrCodeDatabase, "insert position", err)
			}
		}
		return nil
	})
}

func validatePosition(p DefiPosition) error {
	if p.ID == "" {
		return NewError(ErrCodeValidation, "position id required")
	}
	if !isValidPositionType(p.Type) {
		return NewError(ErrCodeValidation, fmt.Sprintf("unknown position type %q", p.Type))
	}
	if p.Amount < 0 || !isFinite(p.Amount) {
		return NewError(ErrCodeValidation, "position amount must be non-negative")
	}
	if p.UsdValue < 0 || !isFinite(p.UsdValue) {
		return NewError(ErrCodeValidation, "position usdValue must be non-negative")
	}
	return nil
}

// GetPositions returns the current DeFi positions in insertion order.
func (c *Core) GetPositions() ([]DefiPosition, error) {
	rows, err := c.db.Query(`
		SELECT id, protocol, chain, asset, type, amount, usd_value, apy, health_factor
		FROM defi_positions ORDER BY rowid`)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query positions", err)
	}
	defer rows.Close()

	positions := []DefiPosition{}
	for rows.Next() {
		var p DefiPosition
		var health sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Protocol, &p.Chain, &p.Asset, &p.Type,
			&p.Amount, &p.UsdValue, &p.Apy, &health); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan position", err)
		}
		if health.Valid {
			p.HealthFactor = &health.Float64
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
