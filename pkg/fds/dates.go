package fds

import "time"

const dayLayout = "2006-01-02"

// unixDayUTC converts unix seconds to a YYYY-MM-DD date in UTC,
// truncated to day granularity.
func unixDayUTC(seconds int64) string {
	return time.Unix(seconds, 0).UTC().Format(dayLayout)
}

// parseDay parses a YYYY-MM-DD date string.
func parseDay(s string) (time.Time, error) {
	return time.Parse(dayLayout, s)
}

// isValidDay reports whether s is a well-formed YYYY-MM-DD date.
func isValidDay(s string) bool {
	_, err := parseDay(s)
	return err == nil
}
