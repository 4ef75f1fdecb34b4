package fds

import (
	"os"
	"path/filepath"
	"testing"
)

// setupTestDB creates a temporary database for testing and returns a Core
// instance. The caller should defer cleanup() to remove the temp file.
func setupTestDB(t *testing.T) (*Core, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fds-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	core, err := Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test db: %v", err)
	}

	cleanup := func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}

	return core, cleanup
}

// testSnapshot inserts a valid snapshot for the given date.
func testSnapshot(t *testing.T, core *Core, date string, totalValue, drawdownPct float64, riskStatus string) PortfolioSnapshot {
	t.Helper()
	s := PortfolioSnapshot{
		Date:           date,
		TotalValue:     totalValue,
		CashBalance:    totalValue * 0.2,
		PositionsValue: totalValue * 0.8,
		PnlUsd:         0,
		PnlPct:         0,
		DrawdownPct:    drawdownPct,
		RiskStatus:     riskStatus,
	}
	if err := core.AddSnapshot(s); err != nil {
		t.Fatalf("failed to create test snapshot: %v", err)
	}
	return s
}

// testTrade inserts a FILLED trade for the given date and symbol.
func testTrade(t *testing.T, core *Core, id, date, symbol, side string, amount, price float64) Trade {
	t.Helper()
	tr := Trade{
		ID:       id,
		Date:     date,
		Symbol:   symbol,
		Side:     side,
		Amount:   amount,
		Price:    price,
		TotalUsd: amount * price,
		Status:   "FILLED",
	}
	if err := core.AddTrade(tr); err != nil {
		t.Fatalf("failed to create test trade: %v", err)
	}
	return tr
}

// solPosition builds a staking position denominated in SOL.
func solPosition(id string, usdValue float64) DefiPosition {
	return DefiPosition{
		ID:       id,
		Protocol: "Marinade",
		Chain:    "L2",
		Asset:    "mSOL",
		Type:     PositionStaking,
		Amount:   usdValue / 140,
		UsdValue: usdValue,
		Apy:      6.8,
	}
}

// floatEquals checks if two floats are approximately equal.
func floatEquals(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

// assertFloatEquals fails the test if the floats are not approximately equal.
func assertFloatEquals(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if !floatEquals(got, want, 0.001) {
		t.Errorf("%s: got %.4f, want %.4f", msg, got, want)
	}
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

// assertErrorCode fails the test if err does not carry the given code.
func assertErrorCode(t *testing.T, err error, code ErrorCode, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected %s error but got nil", msg, code)
	}
	if !IsErrorCode(err, code) {
		t.Fatalf("%s: expected %s error, got %v", msg, code, err)
	}
}

// assertContains checks if the string contains the substring.
func assertContains(t *testing.T, s, substr, msg string) {
	t.Helper()
	found := false
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("%s: string %q does not contain %q", msg, s, substr)
	}
}
