package plant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/production/details" {
			t.Errorf("path = %s, expected /production/details", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2024-03-01" {
			t.Errorf("date = %s, expected 2024-03-01", got)
		}
		if got := r.URL.Query().Get("machine"); got != "A" {
			t.Errorf("machine = %s, expected A", got)
		}
		end := "2024-03-01 08:30:00"
		json.NewEncoder(w).Encode(detailsResponse{
			Date:    "2024-03-01",
			Machine: "A",
			Count:   2,
			Logs: []CompletionEvent{
				{LogID: 1, ShiftID: 1, ShiftName: "Day", StartDatetime: "2024-03-01 08:00:00", EndDatetime: &end},
				{LogID: 2, ShiftID: 1, ShiftName: "Day", StartDatetime: "2024-03-01 08:40:00"},
			},
		})
	}))
	defer srv.Close()

	events, err := NewClientWithBase(srv.URL).FetchDetails(context.Background(), "2024-03-01", MachineA)
	if err != nil {
		t.Fatalf("FetchDetails() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, expected 2", len(events))
	}
	if !events[0].Closed() {
		t.Error("event with end_datetime must report Closed")
	}
	if events[1].Closed() {
		t.Error("event with null end_datetime must not report Closed")
	}
	if events[0].StartDate() != "2024-03-01" {
		t.Errorf("StartDate() = %s, expected 2024-03-01", events[0].StartDate())
	}
}

func TestFetchDetails_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClientWithBase(srv.URL).FetchDetails(context.Background(), "2024-03-01", MachineA); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestFetchDetails_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	}))
	defer srv.Close()

	if _, err := NewClientWithBase(srv.URL).FetchDetails(context.Background(), "2024-03-01", MachineA); err == nil {
		t.Error("expected error for non-JSON body")
	}
}

func TestFetchDailyStats(t *testing.T) {
	var gotDate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		json.NewEncoder(w).Encode(DailyStats{
			Date: "2024-03-01",
			Machines: map[Machine]MachineDayStats{
				MachineA: {Total: 4, TotalPieces: 120},
			},
		})
	}))
	defer srv.Close()

	client := NewClientWithBase(srv.URL)

	stats, err := client.FetchDailyStats(context.Background(), "2024-03-01")
	if err != nil {
		t.Fatalf("FetchDailyStats() error = %v", err)
	}
	if gotDate != "2024-03-01" {
		t.Errorf("date query = %s, expected 2024-03-01", gotDate)
	}
	if stats.Machines[MachineA].Total != 4 {
		t.Errorf("machine A total = %d, expected 4", stats.Machines[MachineA].Total)
	}

	// Empty date means "today": no date parameter at all.
	if _, err := client.FetchDailyStats(context.Background(), ""); err != nil {
		t.Fatalf("FetchDailyStats(today) error = %v", err)
	}
	if gotDate != "" {
		t.Errorf("date query = %q, expected no date parameter", gotDate)
	}
}

func TestFetchMonthlySummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("month"); got != "03" {
			t.Errorf("month query = %s, expected zero-padded 03", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"machines": map[string]interface{}{
				"A": map[string]int{"total_rolls": 9},
			},
		})
	}))
	defer srv.Close()

	sum, err := NewClientWithBase(srv.URL).FetchMonthlySummary(context.Background(), 2024, 3)
	if err != nil {
		t.Fatalf("FetchMonthlySummary() error = %v", err)
	}
	// Year/month are backfilled when the backend omits them.
	if sum.Year != 2024 || sum.Month != 3 {
		t.Errorf("summary keyed %d-%d, expected 2024-3", sum.Year, sum.Month)
	}
	if sum.Machines[MachineA].TotalRolls != 9 {
		t.Errorf("machine A rolls = %d, expected 9", sum.Machines[MachineA].TotalRolls)
	}
}

func TestFetchStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			t.Errorf("path = %s, expected /status", r.URL.Path)
		}
		json.NewEncoder(w).Encode(StatusSnapshot{
			MachineA: {AlarmActive: true, Mode: MachineMode{IsAuto: true, ModeName: "AUTO"}},
			MachineB: {},
		})
	}))
	defer srv.Close()

	snap, err := NewClientWithBase(srv.URL).FetchStatus(context.Background())
	if err != nil {
		t.Fatalf("FetchStatus() error = %v", err)
	}
	if !snap[MachineA].AlarmActive {
		t.Error("machine A alarm flag lost")
	}
	if snap[MachineA].Mode.ModeName != "AUTO" {
		t.Errorf("machine A mode = %s, expected AUTO", snap[MachineA].Mode.ModeName)
	}
}

func TestSendControl(t *testing.T) {
	var gotPath, gotCommand string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotCommand = body["command"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := NewClientWithBase(srv.URL).SendControl(context.Background(), MachineB, "START"); err != nil {
		t.Fatalf("SendControl() error = %v", err)
	}
	if gotPath != "/control/B" {
		t.Errorf("path = %s, expected /control/B", gotPath)
	}
	if gotCommand != "START" {
		t.Errorf("command = %s, expected START", gotCommand)
	}
}

func TestSendControl_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "machine locked out", http.StatusConflict)
	}))
	defer srv.Close()

	err := NewClientWithBase(srv.URL).SendControl(context.Background(), MachineA, "STOP")
	if err == nil {
		t.Fatal("expected error for rejected command")
	}
}

func TestMonthBucket_FirstOfMonth(t *testing.T) {
	tests := []struct {
		month    string
		expected string
	}{
		{"2024-03", "2024-03-01"},
		{"2024-03-01", "2024-03-01"},
		{"2024-03-01 00:00:00", "2024-03-01"},
		{"bogus", "bogus"},
	}
	for _, tt := range tests {
		b := MonthBucket{Month: tt.month}
		if got := b.FirstOfMonth(); got != tt.expected {
			t.Errorf("FirstOfMonth(%q) = %s, expected %s", tt.month, got, tt.expected)
		}
	}
}
