package report

import (
	"sort"

	"github.com/bm9tech/wrapdash/internal/plant"
)

// SummarizeShifts groups closed events by shift and counts them, sorted by
// shift id ascending. Open cycles (null end) never count. Empty input yields
// an empty slice, never an error.
func SummarizeShifts(events []plant.CompletionEvent) []ShiftSummary {
	byShift := make(map[int]*ShiftSummary)
	for _, e := range events {
		if !e.Closed() {
			continue
		}
		s, ok := byShift[e.ShiftID]
		if !ok {
			s = &ShiftSummary{ShiftID: e.ShiftID, ShiftName: e.ShiftName}
			byShift[e.ShiftID] = s
		}
		s.Count++
	}

	out := make([]ShiftSummary, 0, len(byShift))
	for _, s := range byShift {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShiftID < out[j].ShiftID })
	return out
}

// CountClosed counts completed rolls, independent of shift.
func CountClosed(events []plant.CompletionEvent) int {
	n := 0
	for _, e := range events {
		if e.Closed() {
			n++
		}
	}
	return n
}

// ReduceDays produces exactly one row per resolved date, zero-filled for
// dates with no events. An event lands in the row matching its
// start_datetime date component. Input ordering is irrelevant.
func ReduceDays(dates []string, byMachine map[plant.Machine][]plant.CompletionEvent) []DayCount {
	index := make(map[string]int, len(dates))
	rows := make([]DayCount, len(dates))
	for i, d := range dates {
		index[d] = i
		rows[i] = DayCount{Date: d}
	}

	for machine, events := range byMachine {
		for _, e := range events {
			if !e.Closed() {
				continue
			}
			i, ok := index[e.StartDate()]
			if !ok {
				continue
			}
			switch machine {
			case plant.MachineA:
				rows[i].A++
			case plant.MachineB:
				rows[i].B++
			}
		}
	}
	return rows
}

// DaysFromMonthly converts a backend monthly summary into per-day rows.
// Missing machine entries default to zero; the Total series is derived from
// A + B at projection time.
func DaysFromMonthly(sum *plant.MonthlySummary) []DayCount {
	if sum == nil {
		return nil
	}
	rows := make([]DayCount, 0, len(sum.DailyData))
	for _, bucket := range sum.DailyData {
		rows = append(rows, DayCount{
			Date: bucket.Date,
			A:    bucket.Machines[plant.MachineA].Rolls,
			B:    bucket.Machines[plant.MachineB].Rolls,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

// DaysFromYearly converts a backend yearly summary into per-month rows keyed
// by the first day of each month present in the data.
func DaysFromYearly(sum *plant.YearlySummary) []DayCount {
	if sum == nil {
		return nil
	}
	rows := make([]DayCount, 0, len(sum.MonthlyData))
	for _, bucket := range sum.MonthlyData {
		rows = append(rows, DayCount{
			Date: bucket.FirstOfMonth(),
			A:    bucket.Machines[plant.MachineA].Rolls,
			B:    bucket.Machines[plant.MachineB].Rolls,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

// SummaryTotalRolls extracts per-machine total rolls from backend summary
// machine totals, defaulting missing machines to zero.
func SummaryTotalRolls(machines map[plant.Machine]plant.MachineTotals) map[plant.Machine]int {
	totals := make(map[plant.Machine]int, len(plant.Machines))
	for _, m := range plant.Machines {
		totals[m] = machines[m].TotalRolls
	}
	return totals
}
