package fds

import (
	"database/sql"
	"fmt"
)

func initDatabase(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL UNIQUE,
			total_value REAL NOT NULL,
			cash_balance REAL NOT NULL,
			positions_value REAL NOT NULL,
			pnl_usd REAL NOT NULL,
			pnl_pct REAL NOT NULL,
			drawdown_pct REAL NOT NULL CHECK(drawdown_pct >= 0),
			risk_status TEXT NOT NULL CHECK(risk_status IN ('SAFE', 'WARNING', 'CRITICAL')),
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			symbol TEXT NOT NULL,
			side TEXT NOT NULL,
			amount REAL NOT NULL,
			price REAL NOT NULL,
			total_usd REAL NOT NULL,
			fee_usd REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL CHECK(status IN ('FILLED', 'PENDING', 'FAILED')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}
	if err := exec(tx, "CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date)"); err != nil {
		return err
	}
	if err := exec(tx, "CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol)"); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS defi_positions (
			id TEXT PRIMARY KEY,
			protocol TEXT NOT NULL,
			chain TEXT NOT NULL,
			asset TEXT NOT NULL,
			type TEXT NOT NULL CHECK(type IN ('LENDING', 'LP', 'STAKING')),
			amount REAL NOT NULL CHECK(amount >= 0),
			usd_value REAL NOT NULL CHECK(usd_value >= 0),
			apy REAL NOT NULL DEFAULT 0,
			health_factor REAL
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			type TEXT NOT NULL CHECK(type IN ('DRAWDOWN', 'EXPOSURE', 'MARGIN')),
			severity TEXT NOT NULL CHECK(severity IN ('WARNING', 'CRITICAL')),
			message TEXT NOT NULL,
			acknowledged INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}
	if err := exec(tx, "CREATE INDEX IF NOT EXISTS idx_alerts_date ON alerts(date)"); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS journal (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL UNIQUE,
			summary TEXT NOT NULL,
			risk_commentary TEXT NOT NULL DEFAULT '',
			discipline_notes TEXT NOT NULL DEFAULT '',
			tomorrow_focus TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS diagnostics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			component TEXT NOT NULL,
			code TEXT NOT NULL,
			detail TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	return tx.Commit()
}

func exec(tx *sql.Tx, query string) error {
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("exec schema statement: %w", err)
	}
	return nil
}
