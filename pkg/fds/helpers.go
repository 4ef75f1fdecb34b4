package fds

import (
	"math"
)

func isValidRiskStatus(status string) bool {
	for _, s := range RiskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func isValidTradeStatus(status string) bool {
	for _, s := range TradeStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func isValidPositionType(t string) bool {
	for _, v := range PositionTypes {
		if v == t {
			return true
		}
	}
	return false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}
