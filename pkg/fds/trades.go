package fds

import (
	"fmt"
	"strings"
)

// AddTrade inserts a canonical trade. Trades are immutable once created.
// Sides outside BUY/SELL are rejected at the store boundary: the
// normalizer passes unknown provider tokens through, the canonical store
// does not accept them.
func (c *Core) AddTrade(t Trade) error {
	if t.ID == "" {
		return NewError(ErrCodeValidation, "trade id required")
	}
	if !isValidDay(t.Date) {
		return NewError(ErrCodeValidation, fmt.Sprintf("trade date %q is not YYYY-MM-DD", t.Date))
	}
	if t.Side != SideBuy && t.Side != SideSell {
		return NewError(ErrCodeValidation, fmt.Sprintf("unknown trade side %q", t.Side))
	}
	if t.Amount <= 0 || !isFinite(t.Amount) {
		return NewError(ErrCodeValidation, "trade amount must be positive")
	}
	if t.Price <= 0 || !isFinite(t.Price) {
		return NewError(ErrCodeValidation, "trade price must be positive")
	}
	if t.Status == "" {
		t.Status = "FILLED"
	}
	if !isValidTradeStatus(t.Status) {
		return NewError(ErrCodeValidation, fmt.Sprintf("unknown trade status %q", t.Status))
	}

	_, err := c.db.Exec(`
		INSERT INTO trades (id, date, symbol, side, amount, price, total_usd, fee_usd, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date, t.Symbol, t.Side, t.Amount, t.Price, t.TotalUsd, t.FeeUsd, t.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return NewError(ErrCodeDuplicate, fmt.Sprintf("trade %s already exists", t.ID))
		}
		return WrapError(ErrCodeDatabase, "insert trade", err)
	}
	return nil
}

// GetTrades returns trades matching the filter, ordered by date then id.
// Symbol filtering is substring containment.
func (c *Core) GetTrades(filter TradeFilter) ([]Trade, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := `
		SELECT id, date, symbol, side, amount, price, total_usd, fee_usd, status
		FROM trades`
	conditions, args := dateRangeConditions(filter.DateRangeFilter)
	if filter.Symbol != "" {
		conditions = append(conditions, `symbol LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(filter.Symbol)+"%")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, id"

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query trades", err)
	}
	defer rows.Close()

	trades := []Trade{}
	for rows.Next() {
		var t Trade
		if err := rows.Scan(&t.ID, &t.Date, &t.Symbol, &t.Side, &t.Amount,
			&t.Price, &t.TotalUsd, &t.FeeUsd, &t.Status); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan trade", err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}
