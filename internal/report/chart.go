package report

import (
	"sort"

	"github.com/bm9tech/wrapdash/internal/plant"
)

// AxisKind distinguishes category axes (shift names) from time axes (dates).
type AxisKind string

const (
	AxisCategorical AxisKind = "categorical"
	AxisTime        AxisKind = "time"
)

// SeriesDesc describes one chart series.
type SeriesDesc struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// ChartRow is one axis bucket with its per-series values.
type ChartRow struct {
	Axis   string         `json:"axis"`
	Values map[string]int `json:"values"`
}

// ChartSpec is a chart-library-agnostic series specification. Identical
// aggregate input always projects to an identical spec.
type ChartSpec struct {
	Axis   AxisKind     `json:"axis"`
	Series []SeriesDesc `json:"series"`
	Rows   []ChartRow   `json:"rows"`
}

// Series colors match the machine accents used across the dashboard.
var (
	colorMachineA = "#4F46E5"
	colorMachineB = "#10B981"
	colorTotal    = "#F59E0B"
)

var (
	seriesA     = SeriesDesc{Key: "a", Label: "Machine A", Color: colorMachineA}
	seriesB     = SeriesDesc{Key: "b", Label: "Machine B", Color: colorMachineB}
	seriesTotal = SeriesDesc{Key: "total", Label: "Total", Color: colorTotal}
)

// BuildShiftChart projects per-machine shift summaries onto a categorical
// axis keyed by shift name, one bar series per machine. Returns nil when
// neither machine produced anything: the chart is withheld, not an error.
func BuildShiftChart(byMachine map[plant.Machine][]ShiftSummary) *ChartSpec {
	type shift struct {
		id   int
		name string
	}
	seen := make(map[int]string)
	for _, summaries := range byMachine {
		for _, s := range summaries {
			seen[s.ShiftID] = s.ShiftName
		}
	}
	if len(seen) == 0 {
		return nil
	}

	shifts := make([]shift, 0, len(seen))
	for id, name := range seen {
		shifts = append(shifts, shift{id: id, name: name})
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].id < shifts[j].id })

	counts := func(m plant.Machine, shiftID int) int {
		for _, s := range byMachine[m] {
			if s.ShiftID == shiftID {
				return s.Count
			}
		}
		return 0
	}

	rows := make([]ChartRow, 0, len(shifts))
	for _, sh := range shifts {
		rows = append(rows, ChartRow{
			Axis: sh.name,
			Values: map[string]int{
				seriesA.Key: counts(plant.MachineA, sh.id),
				seriesB.Key: counts(plant.MachineB, sh.id),
			},
		})
	}

	return &ChartSpec{
		Axis:   AxisCategorical,
		Series: []SeriesDesc{seriesA, seriesB},
		Rows:   rows,
	}
}

// BuildTimeChart projects per-bucket counts onto a time axis with three bar
// series: A, B and Total = A + B. One row per input bucket, zeros included.
// Returns nil when there are no buckets at all.
func BuildTimeChart(days []DayCount) *ChartSpec {
	if len(days) == 0 {
		return nil
	}

	rows := make([]ChartRow, 0, len(days))
	for _, d := range days {
		rows = append(rows, ChartRow{
			Axis: d.Date,
			Values: map[string]int{
				seriesA.Key:     d.A,
				seriesB.Key:     d.B,
				seriesTotal.Key: d.Total(),
			},
		})
	}

	return &ChartSpec{
		Axis:   AxisTime,
		Series: []SeriesDesc{seriesA, seriesB, seriesTotal},
		Rows:   rows,
	}
}
