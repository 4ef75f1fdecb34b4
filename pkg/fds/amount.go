package fds

import "github.com/shopspring/decimal"

// Amount wraps decimal.Decimal for exact monetary arithmetic during
// normalization. Canonical records store plain float64 values; Amount is
// the intermediate type that scales raw integer balances and multiplies
// quantities by prices without binary float artifacts.
type Amount struct {
	decimal.Decimal
}

// NewAmount creates an Amount from a float64.
func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// parseAmount parses a provider-supplied numeric string.
func parseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}
