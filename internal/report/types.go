package report

import (
	"fmt"

	"github.com/bm9tech/wrapdash/internal/plant"
)

// Type is the report granularity.
type Type string

const (
	TypeDaily   Type = "daily"
	TypeWeekly  Type = "weekly"
	TypeMonthly Type = "monthly"
	TypeYearly  Type = "yearly"
)

// ParseType validates a report type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeDaily, TypeWeekly, TypeMonthly, TypeYearly:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown report type %q", s)
}

// Selection is the immutable selector tuple a report is built from. It is
// passed by value through resolver, fetcher, aggregator and projector; no
// pipeline stage holds hidden state.
type Selection struct {
	Type      Type   `form:"type" json:"type"`
	Date      string `form:"date" json:"date,omitempty"`
	WeekStart string `form:"week_start" json:"week_start,omitempty"`
	Year      int    `form:"year" json:"year,omitempty"`
	Month     int    `form:"month" json:"month,omitempty"`
}

// Validate checks that the selectors required by the report type are present.
func (s Selection) Validate() error {
	switch s.Type {
	case TypeDaily:
		if s.Date == "" {
			return fmt.Errorf("daily report requires date")
		}
	case TypeWeekly:
		if s.WeekStart == "" && s.Date == "" {
			return fmt.Errorf("weekly report requires week_start or date")
		}
	case TypeMonthly:
		if s.Year <= 0 || s.Month < 1 || s.Month > 12 {
			return fmt.Errorf("monthly report requires year and month")
		}
	case TypeYearly:
		if s.Year <= 0 {
			return fmt.Errorf("yearly report requires year")
		}
	default:
		return fmt.Errorf("unknown report type %q", string(s.Type))
	}
	return nil
}

// ShiftSummary counts completed rolls for one shift within a day.
type ShiftSummary struct {
	ShiftID   int    `json:"shift_id"`
	ShiftName string `json:"shift_name"`
	Count     int    `json:"count"`
}

// DayCount holds per-machine completed roll counts for one axis bucket
// (a calendar day, or a first-of-month for yearly reports).
type DayCount struct {
	Date string `json:"date"`
	A    int    `json:"a"`
	B    int    `json:"b"`
}

// Total is the combined count of both machines.
func (d DayCount) Total() int { return d.A + d.B }

// View is the published result of one resolution pass: everything the
// presentation layer needs for the selected report. All fields are fully
// recomputed on every pass; nothing carries over between selections.
type View struct {
	Selection Selection `json:"selection"`

	// Window lists the concrete dates the report resolved to. Empty for
	// monthly/yearly reports, which delegate to backend summaries.
	Window []string `json:"window,omitempty"`

	// Details holds the raw event rows per machine (daily reports).
	Details map[plant.Machine][]plant.CompletionEvent `json:"details,omitempty"`

	// Shifts holds per-machine shift summaries (daily reports).
	Shifts map[plant.Machine][]ShiftSummary `json:"shift_summaries,omitempty"`

	// TotalRolls counts closed events per machine over the window.
	TotalRolls map[plant.Machine]int `json:"total_rolls,omitempty"`

	// Days holds the dense per-bucket rows (weekly/monthly/yearly).
	Days []DayCount `json:"days,omitempty"`

	// Monthly / Yearly carry the backend summary totals when applicable.
	Monthly *plant.MonthlySummary `json:"monthly,omitempty"`
	Yearly  *plant.YearlySummary  `json:"yearly,omitempty"`

	// Chart is nil when there is no data to plot.
	Chart *ChartSpec `json:"chart,omitempty"`
}
