package plant

import "strings"

// Machine identifies one of the two wrapping machines.
type Machine string

const (
	MachineA Machine = "A"
	MachineB Machine = "B"
)

// Machines lists every machine the backend tracks.
var Machines = []Machine{MachineA, MachineB}

// Valid reports whether m is a known machine id.
func (m Machine) Valid() bool {
	return m == MachineA || m == MachineB
}

// CompletionEvent is one wrapping cycle as recorded by the plant backend.
// A cycle counts as a completed roll only when EndDatetime is set; an open
// cycle (machine still wrapping) has a null end.
type CompletionEvent struct {
	LogID           int64   `json:"log_id"`
	MachineName     string  `json:"machine_name"`
	ShiftID         int     `json:"shift_id"`
	ShiftName       string  `json:"shift_name"`
	StartDatetime   string  `json:"start_datetime"`
	EndDatetime     *string `json:"end_datetime"`
	DurationSeconds float64 `json:"duration_seconds"`
	DurationMinutes float64 `json:"duration_minutes"`
	PiecesCompleted int     `json:"pieces_completed"`
	FilmWrapCycle   int     `json:"film_wrap_cycle"`
	Note            string  `json:"note"`
}

// Closed reports whether the cycle has finished, i.e. the event represents a
// completed roll.
func (e CompletionEvent) Closed() bool {
	return e.EndDatetime != nil && *e.EndDatetime != ""
}

// StartDate returns the YYYY-MM-DD date component of StartDatetime.
func (e CompletionEvent) StartDate() string {
	s := e.StartDatetime
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// detailsResponse mirrors GET /production/details.
type detailsResponse struct {
	Date    string            `json:"date"`
	Machine string            `json:"machine"`
	Count   int               `json:"count"`
	Logs    []CompletionEvent `json:"logs"`
}

// MachineDayStats is the per-machine block of GET /production/stats.
type MachineDayStats struct {
	Total            int            `json:"total"`
	TotalPieces      int            `json:"total_pieces"`
	TotalCycles      int            `json:"total_cycles"`
	TotalDurationMin float64        `json:"total_duration_min"`
	Shifts           map[string]int `json:"shifts"`
}

// DailyStats is the live production counter snapshot for one date.
type DailyStats struct {
	Date     string                      `json:"date"`
	Machines map[Machine]MachineDayStats `json:"machines"`
}

// SummaryCounters holds per-bucket production counters inside a monthly or
// yearly summary. Missing fields default to zero.
type SummaryCounters struct {
	Rolls       int     `json:"rolls"`
	Pieces      int     `json:"pieces"`
	Cycles      int     `json:"cycles"`
	DurationMin float64 `json:"duration_min"`
}

// MachineTotals holds the whole-period totals per machine.
type MachineTotals struct {
	TotalRolls       int     `json:"total_rolls"`
	TotalPieces      int     `json:"total_pieces"`
	TotalCycles      int     `json:"total_cycles"`
	TotalDurationMin float64 `json:"total_duration_min"`
}

// DailyBucket is one calendar day inside a monthly summary.
type DailyBucket struct {
	Date     string                      `json:"date"`
	Machines map[Machine]SummaryCounters `json:"machines"`
}

// MonthBucket is one calendar month inside a yearly summary. Month is either
// YYYY-MM or a full first-of-month date, depending on backend version.
type MonthBucket struct {
	Month    string                      `json:"month"`
	Machines map[Machine]SummaryCounters `json:"machines"`
}

// FirstOfMonth normalizes the bucket key to a YYYY-MM-01 date.
func (b MonthBucket) FirstOfMonth() string {
	m := b.Month
	if len(m) == 7 && strings.Count(m, "-") == 1 {
		return m + "-01"
	}
	if len(m) >= 10 {
		return m[:10]
	}
	return m
}

// MonthlySummary mirrors GET /production/summary/monthly.
type MonthlySummary struct {
	Year      int                       `json:"year"`
	Month     int                       `json:"month"`
	Machines  map[Machine]MachineTotals `json:"machines"`
	DailyData []DailyBucket             `json:"daily_data"`
}

// YearlySummary mirrors GET /production/summary/yearly.
type YearlySummary struct {
	Year        int                       `json:"year"`
	Machines    map[Machine]MachineTotals `json:"machines"`
	MonthlyData []MonthBucket             `json:"monthly_data"`
}

// MachineMode is the auto/manual state block of GET /status.
type MachineMode struct {
	IsAuto    bool    `json:"is_auto"`
	ModeName  string  `json:"mode_name"`
	ChangedAt float64 `json:"changed_at"`
}

// MachineStatus is one machine's live state.
type MachineStatus struct {
	AlarmActive bool        `json:"alarm_active"`
	LastStopTS  float64     `json:"last_stop_ts"`
	Mode        MachineMode `json:"mode"`
	Error       string      `json:"error,omitempty"`
	Warning     string      `json:"warning,omitempty"`
}

// StatusSnapshot is the full GET /status payload, keyed by machine id.
type StatusSnapshot map[Machine]MachineStatus
