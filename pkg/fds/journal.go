package fds

import (
	"fmt"
	"strings"
)

// AddJournalEntry inserts a narrative record. One entry per day; entries
// are immutable once written.
func (c *Core) AddJournalEntry(j JournalEntry) error {
	if !isValidDay(j.Date) {
		return NewError(ErrCodeValidation, fmt.Sprintf("journal date %q is not YYYY-MM-DD", j.Date))
	}
	if strings.TrimSpace(j.Summary) == "" {
		return NewError(ErrCodeValidation, "journal summary required")
	}
	if j.ID == "" {
		j.ID = "journal-" + j.Date
	}

	_, err := c.db.Exec(`
		INSERT INTO journal (id, date, summary, risk_commentary, discipline_notes, tomorrow_focus)
		VALUES (?, ?, ?, ?, ?, ?)`,
		j.ID, j.Date, j.Summary, j.RiskCommentary, j.DisciplineNotes, j.TomorrowFocus,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return NewError(ErrCodeDuplicate, fmt.Sprintf("journal entry for %s already exists", j.Date))
		}
		return WrapError(ErrCodeDatabase, "insert journal entry", err)
	}
	return nil
}

// GetJournal returns journal entries inside the filter's date range,
// ordered by date.
func (c *Core) GetJournal(filter DateRangeFilter) ([]JournalEntry, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := `
		SELECT id, date, summary, risk_commentary, discipline_notes, tomorrow_focus
		FROM journal`
	conditions, args := dateRangeConditions(filter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date"

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query journal", err)
	}
	defer rows.Close()

	entries := []JournalEntry{}
	for rows.Next() {
		var j JournalEntry
		if err := rows.Scan(&j.ID, &j.Date, &j.Summary, &j.RiskCommentary,
			&j.DisciplineNotes, &j.TomorrowFocus); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan journal entry", err)
		}
		entries = append(entries, j)
	}
	return entries, rows.Err()
}
