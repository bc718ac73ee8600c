package report

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// WeekStartOf normalizes any date to the Monday of its ISO week. Sunday maps
// six days back; other weekdays map back by their offset from Monday.
// Idempotent: every date of a week resolves to the same Monday.
func WeekStartOf(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch wd := t.Weekday(); wd {
	case time.Sunday:
		return t.AddDate(0, 0, -6)
	default:
		return t.AddDate(0, 0, -(int(wd) - int(time.Monday)))
	}
}

// ResolveWindow expands a selection into the concrete dates to fetch.
// Daily yields the selected date, weekly the 7 days from the normalized
// Monday. Monthly and yearly resolve to an empty window: their data comes
// from backend summaries keyed by (year, month) or (year).
func ResolveWindow(sel Selection) ([]string, error) {
	switch sel.Type {
	case TypeDaily:
		if _, err := time.Parse(DateLayout, sel.Date); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", sel.Date, err)
		}
		return []string{sel.Date}, nil

	case TypeWeekly:
		anchor := sel.WeekStart
		if anchor == "" {
			anchor = sel.Date
		}
		t, err := time.Parse(DateLayout, anchor)
		if err != nil {
			return nil, fmt.Errorf("invalid week anchor %q: %w", anchor, err)
		}
		monday := WeekStartOf(t)
		dates := make([]string, 7)
		for i := 0; i < 7; i++ {
			dates[i] = monday.AddDate(0, 0, i).Format(DateLayout)
		}
		return dates, nil

	case TypeMonthly, TypeYearly:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown report type %q", string(sel.Type))
}
