package fds

import "fmt"

// Alert filter status values.
const (
	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusAll          = "all"
)

// The query layer fails closed: malformed filter values fail the call
// rather than being coerced or ignored. This is the opposite policy from
// the risk evaluator, and deliberately so.

// DateRangeFilter bounds a query to an inclusive day-granularity range.
// An empty field means no constraint. From after To is a valid filter
// that matches nothing.
type DateRangeFilter struct {
	From string
	To   string
}

// Validate checks the filter against its declared schema.
func (f DateRangeFilter) Validate() error {
	if f.From != "" && !isValidDay(f.From) {
		return NewError(ErrCodeValidation, fmt.Sprintf("malformed from date %q", f.From))
	}
	if f.To != "" && !isValidDay(f.To) {
		return NewError(ErrCodeValidation, fmt.Sprintf("malformed to date %q", f.To))
	}
	return nil
}

// matches reports whether a record day falls inside the range. Dates are
// canonical YYYY-MM-DD strings, so lexicographic comparison is
// day-granularity comparison.
func (f DateRangeFilter) matches(day string) bool {
	if f.From != "" && day < f.From {
		return false
	}
	if f.To != "" && day > f.To {
		return false
	}
	return true
}

// TradeFilter bounds a trade query by date range and symbol substring.
type TradeFilter struct {
	DateRangeFilter
	Symbol string
}

// Validate checks the filter against its declared schema.
func (f TradeFilter) Validate() error {
	return f.DateRangeFilter.Validate()
}

// AlertFilter selects alerts by acknowledgment status. An empty status
// means all.
type AlertFilter struct {
	Status string
}

// Validate checks the filter against its declared schema. Unknown status
// values fail the call.
func (f AlertFilter) Validate() error {
	switch f.Status {
	case "", AlertStatusActive, AlertStatusAcknowledged, AlertStatusAll:
		return nil
	}
	return NewError(ErrCodeValidation, fmt.Sprintf("unknown alert status %q", f.Status))
}
