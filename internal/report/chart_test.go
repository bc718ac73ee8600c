package report

import (
	"encoding/json"
	"testing"

	"github.com/bm9tech/wrapdash/internal/plant"
)

func TestBuildShiftChart(t *testing.T) {
	byMachine := map[plant.Machine][]ShiftSummary{
		plant.MachineA: {
			{ShiftID: 1, ShiftName: "Day", Count: 2},
		},
		plant.MachineB: {},
	}

	chart := BuildShiftChart(byMachine)
	if chart == nil {
		t.Fatal("expected a chart, got nil")
	}
	if chart.Axis != AxisCategorical {
		t.Errorf("axis = %s, expected categorical", chart.Axis)
	}
	if len(chart.Series) != 2 {
		t.Fatalf("got %d series, expected 2 (one per machine)", len(chart.Series))
	}
	if len(chart.Rows) != 1 {
		t.Fatalf("got %d rows, expected 1", len(chart.Rows))
	}
	row := chart.Rows[0]
	if row.Axis != "Day" {
		t.Errorf("row axis = %s, expected Day", row.Axis)
	}
	if row.Values["a"] != 2 || row.Values["b"] != 0 {
		t.Errorf("row values = %v, expected a=2 b=0", row.Values)
	}
}

func TestBuildShiftChart_UnionOfShifts(t *testing.T) {
	// Each machine has a shift the other never worked; the axis is the union,
	// sorted by shift id, with zeros where a machine was idle.
	byMachine := map[plant.Machine][]ShiftSummary{
		plant.MachineA: {{ShiftID: 2, ShiftName: "Night", Count: 3}},
		plant.MachineB: {{ShiftID: 1, ShiftName: "Day", Count: 1}},
	}

	chart := BuildShiftChart(byMachine)
	if chart == nil {
		t.Fatal("expected a chart, got nil")
	}
	if len(chart.Rows) != 2 {
		t.Fatalf("got %d rows, expected 2", len(chart.Rows))
	}
	if chart.Rows[0].Axis != "Day" || chart.Rows[1].Axis != "Night" {
		t.Errorf("rows not ordered by shift id: %+v", chart.Rows)
	}
	if chart.Rows[0].Values["a"] != 0 || chart.Rows[0].Values["b"] != 1 {
		t.Errorf("Day row = %v, expected a=0 b=1", chart.Rows[0].Values)
	}
	if chart.Rows[1].Values["a"] != 3 || chart.Rows[1].Values["b"] != 0 {
		t.Errorf("Night row = %v, expected a=3 b=0", chart.Rows[1].Values)
	}
}

func TestBuildShiftChart_NoData(t *testing.T) {
	if chart := BuildShiftChart(nil); chart != nil {
		t.Errorf("expected nil chart for no input, got %+v", chart)
	}
	empty := map[plant.Machine][]ShiftSummary{
		plant.MachineA: {},
		plant.MachineB: {},
	}
	if chart := BuildShiftChart(empty); chart != nil {
		t.Errorf("expected nil chart for empty summaries, got %+v", chart)
	}
}

func TestBuildTimeChart(t *testing.T) {
	days := []DayCount{
		{Date: "2024-03-04", A: 2, B: 1},
		{Date: "2024-03-05"},
		{Date: "2024-03-06", A: 0, B: 4},
	}

	chart := BuildTimeChart(days)
	if chart == nil {
		t.Fatal("expected a chart, got nil")
	}
	if chart.Axis != AxisTime {
		t.Errorf("axis = %s, expected time", chart.Axis)
	}
	if len(chart.Series) != 3 {
		t.Fatalf("got %d series, expected a, b and total", len(chart.Series))
	}
	if len(chart.Rows) != 3 {
		t.Fatalf("got %d rows, expected one per bucket", len(chart.Rows))
	}
	if v := chart.Rows[0].Values; v["a"] != 2 || v["b"] != 1 || v["total"] != 3 {
		t.Errorf("rows[0] values = %v, expected a=2 b=1 total=3", v)
	}
	if v := chart.Rows[1].Values; v["total"] != 0 {
		t.Errorf("zero bucket must still appear with total=0, got %v", v)
	}
	if v := chart.Rows[2].Values; v["total"] != 4 {
		t.Errorf("rows[2] total = %d, expected 4", v["total"])
	}
}

func TestBuildTimeChart_NoData(t *testing.T) {
	if chart := BuildTimeChart(nil); chart != nil {
		t.Errorf("expected nil chart for no buckets, got %+v", chart)
	}
}

func TestChartProjectionDeterministic(t *testing.T) {
	byMachine := map[plant.Machine][]ShiftSummary{
		plant.MachineA: {
			{ShiftID: 1, ShiftName: "Day", Count: 5},
			{ShiftID: 2, ShiftName: "Night", Count: 2},
		},
		plant.MachineB: {
			{ShiftID: 1, ShiftName: "Day", Count: 3},
		},
	}

	first, err := json.Marshal(BuildShiftChart(byMachine))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(BuildShiftChart(byMachine))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("identical input projected different charts:\n%s\n%s", first, again)
		}
	}
}
