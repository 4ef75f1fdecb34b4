package fds

import (
	"fmt"
	"strings"
)

// RiskParams holds the threshold calibration for the risk evaluator.
// Thresholds are configuration, never derived from data.
type RiskParams struct {
	DrawdownWarningPct  float64 `json:"drawdown_warning_pct"`
	DrawdownCriticalPct float64 `json:"drawdown_critical_pct"`
	ExposureWarningPct  float64 `json:"exposure_warning_pct"`
	ExposureCriticalPct float64 `json:"exposure_critical_pct"`
}

// DefaultRiskParams returns the reference calibration.
func DefaultRiskParams() RiskParams {
	return RiskParams{
		DrawdownWarningPct:  3,
		DrawdownCriticalPct: 5,
		ExposureWarningPct:  40,
		ExposureCriticalPct: 50,
	}
}

// Validate checks the parameter set for structural sanity.
func (p RiskParams) Validate() error {
	if !isFinite(p.DrawdownWarningPct) || !isFinite(p.DrawdownCriticalPct) ||
		!isFinite(p.ExposureWarningPct) || !isFinite(p.ExposureCriticalPct) {
		return NewError(ErrCodeValidation, "risk thresholds must be finite")
	}
	if p.DrawdownWarningPct < 0 || p.ExposureWarningPct < 0 {
		return NewError(ErrCodeValidation, "risk thresholds must be non-negative")
	}
	if p.DrawdownCriticalPct < p.DrawdownWarningPct {
		return NewError(ErrCodeValidation, "drawdown critical threshold below warning threshold")
	}
	if p.ExposureCriticalPct < p.ExposureWarningPct {
		return NewError(ErrCodeValidation, "exposure critical threshold below warning threshold")
	}
	return nil
}

var alertTypeSlugs = map[string]string{
	AlertDrawdown: "dd",
	AlertExposure: "exp",
	AlertMargin:   "mgn",
}

// AlertID derives the deterministic alert id. It is a pure function of
// (type, severity, date), so repeated evaluation of identical state yields
// identical ids and persisted alerts dedupe naturally.
func AlertID(alertType, severity, date string) string {
	slug, ok := alertTypeSlugs[alertType]
	if !ok {
		slug = strings.ToLower(alertType)
	}
	return fmt.Sprintf("alert-%s-%s-%s", slug, strings.ToLower(severity), date)
}

// validateRiskInputs checks the snapshot and positions against the partial
// structural schema the evaluator relies on.
func validateRiskInputs(snapshot PortfolioSnapshot, positions []DefiPosition) error {
	if !isValidDay(snapshot.Date) {
		return NewError(ErrCodeValidation, fmt.Sprintf("snapshot date %q is not YYYY-MM-DD", snapshot.Date))
	}
	if !isFinite(snapshot.TotalValue) || !isFinite(snapshot.DrawdownPct) {
		return NewError(ErrCodeValidation, "snapshot values must be finite")
	}
	if snapshot.DrawdownPct < 0 {
		return NewError(ErrCodeValidation, "snapshot drawdownPct must be non-negative")
	}
	if !isValidRiskStatus(snapshot.RiskStatus) {
		return NewError(ErrCodeValidation, fmt.Sprintf("unknown risk status %q", snapshot.RiskStatus))
	}
	for _, p := range positions {
		if !isFinite(p.UsdValue) || p.UsdValue < 0 {
			return NewError(ErrCodeValidation, fmt.Sprintf("position %s has invalid usdValue", p.ID))
		}
	}
	return nil
}

// EvaluateRisk runs the risk rules against a snapshot and the current DeFi
// positions. It is pure and deterministic: the same (snapshot, positions,
// params) always yields the same alerts in the same order (drawdown,
// exposure, margin). Each rule emits at most one alert; critical strictly
// dominates warning within a rule.
//
// On validation failure it returns a nil list and a describing error.
// Callers are expected to treat the error as a diagnostic, not a failure:
// risk evaluation must never halt the surrounding system.
func EvaluateRisk(snapshot PortfolioSnapshot, positions []DefiPosition, params RiskParams) ([]RiskAlert, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := validateRiskInputs(snapshot, positions); err != nil {
		return nil, err
	}

	var alerts []RiskAlert

	// 1. Drawdown
	switch {
	case snapshot.DrawdownPct > params.DrawdownCriticalPct:
		alerts = append(alerts, newAlert(AlertDrawdown, SeverityCritical, snapshot.Date,
			fmt.Sprintf("Drawdown of %.2f%% exceeds critical limit of %.2f%%",
				snapshot.DrawdownPct, params.DrawdownCriticalPct)))
	case snapshot.DrawdownPct > params.DrawdownWarningPct:
		alerts = append(alerts, newAlert(AlertDrawdown, SeverityWarning, snapshot.Date,
			fmt.Sprintf("Drawdown of %.2f%% exceeds warning limit of %.2f%%",
				snapshot.DrawdownPct, params.DrawdownWarningPct)))
	}

	// 2. SOL exposure
	exposurePct := solExposurePct(snapshot, positions)
	switch {
	case exposurePct > params.ExposureCriticalPct:
		alerts = append(alerts, newAlert(AlertExposure, SeverityCritical, snapshot.Date,
			fmt.Sprintf("SOL exposure of %.2f%% exceeds critical limit of %.2f%%",
				exposurePct, params.ExposureCriticalPct)))
	case exposurePct > params.ExposureWarningPct:
		alerts = append(alerts, newAlert(AlertExposure, SeverityWarning, snapshot.Date,
			fmt.Sprintf("SOL exposure of %.2f%% exceeds warning limit of %.2f%%",
				exposurePct, params.ExposureWarningPct)))
	}

	// 3. Margin: coarse passthrough of the account-level status.
	if snapshot.RiskStatus == RiskStatusCritical {
		alerts = append(alerts, newAlert(AlertMargin, SeverityWarning, snapshot.Date,
			fmt.Sprintf("Account risk status is %s; review margin usage", snapshot.RiskStatus)))
	}

	return alerts, nil
}

// solExposurePct sums the USD value of positions whose asset contains
// "SOL" case-insensitively and returns it as a percentage of total value.
func solExposurePct(snapshot PortfolioSnapshot, positions []DefiPosition) float64 {
	var solExposureUsd float64
	for _, p := range positions {
		if strings.Contains(strings.ToUpper(p.Asset), "SOL") {
			solExposureUsd += p.UsdValue
		}
	}
	if snapshot.TotalValue <= 0 {
		return 0
	}
	return solExposureUsd / snapshot.TotalValue * 100
}

func newAlert(alertType, severity, date, message string) RiskAlert {
	return RiskAlert{
		ID:       AlertID(alertType, severity, date),
		Date:     date,
		Type:     alertType,
		Severity: severity,
		Message:  message,
	}
}
