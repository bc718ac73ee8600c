package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bm9tech/wrapdash/internal/plant"
)

func TestStatusPoller_SnapshotAndPublish(t *testing.T) {
	var polls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&polls, 1)
		json.NewEncoder(w).Encode(plant.StatusSnapshot{
			plant.MachineA: {AlarmActive: false, Mode: plant.MachineMode{IsAuto: true, ModeName: "AUTO"}},
			plant.MachineB: {AlarmActive: true},
		})
	}))
	defer srv.Close()

	hub := NewSSEHub()
	ch := hub.Subscribe("test-client")
	defer hub.Unsubscribe("test-client")

	poller := NewStatusPoller(plant.NewClientWithBase(srv.URL), hub, 20*time.Millisecond)
	poller.Start()
	defer poller.Stop()

	// First poll publishes the initial snapshot.
	select {
	case ev := <-ch:
		if ev.Kind != EventStatus {
			t.Errorf("event kind = %s, expected status", ev.Kind)
		}
		snap, ok := ev.Payload.(plant.StatusSnapshot)
		if !ok {
			t.Fatalf("payload type %T, expected StatusSnapshot", ev.Payload)
		}
		if !snap[plant.MachineB].AlarmActive {
			t.Error("machine B alarm flag lost in event payload")
		}
	case <-time.After(time.Second):
		t.Fatal("no status event received")
	}

	snap, fetchedAt, reachable := poller.Snapshot()
	if !reachable {
		t.Error("poller must report backend reachable")
	}
	if fetchedAt.IsZero() {
		t.Error("fetch time not recorded")
	}
	if snap[plant.MachineA].Mode.ModeName != "AUTO" {
		t.Errorf("snapshot mode = %s, expected AUTO", snap[plant.MachineA].Mode.ModeName)
	}

	// Unchanged snapshots are not republished on subsequent ticks.
	time.Sleep(60 * time.Millisecond)
	select {
	case ev := <-ch:
		t.Errorf("unexpected event for unchanged status: %+v", ev)
	default:
	}
	if atomic.LoadInt64(&polls) < 2 {
		t.Error("poller did not keep ticking")
	}
}

func TestStatusPoller_UnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	poller := NewStatusPoller(plant.NewClientWithBase(srv.URL), NewSSEHub(), 20*time.Millisecond)
	poller.Start()
	defer poller.Stop()

	time.Sleep(50 * time.Millisecond)
	_, _, reachable := poller.Snapshot()
	if reachable {
		t.Error("poller must report backend unreachable")
	}
}

func TestStatusPoller_RefreshNow(t *testing.T) {
	var polls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&polls, 1)
		json.NewEncoder(w).Encode(plant.StatusSnapshot{})
	}))
	defer srv.Close()

	poller := NewStatusPoller(plant.NewClientWithBase(srv.URL), NewSSEHub(), time.Hour)
	poller.Start()
	defer poller.Stop()

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt64(&polls) < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	before := atomic.LoadInt64(&polls)

	poller.RefreshNow()
	deadline = time.Now().Add(time.Second)
	for atomic.LoadInt64(&polls) <= before && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if atomic.LoadInt64(&polls) <= before {
		t.Error("RefreshNow did not trigger an out-of-band poll")
	}
}

func TestStatsPoller_Snapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("date"); got != "" {
			t.Errorf("live stats poll sent date=%s, expected none (today)", got)
		}
		json.NewEncoder(w).Encode(plant.DailyStats{
			Date: "2024-03-01",
			Machines: map[plant.Machine]plant.MachineDayStats{
				plant.MachineA: {Total: 7},
			},
		})
	}))
	defer srv.Close()

	hub := NewSSEHub()
	ch := hub.Subscribe("stats-client")
	defer hub.Unsubscribe("stats-client")

	poller := NewStatsPoller(plant.NewClientWithBase(srv.URL), hub, 20*time.Millisecond)
	poller.Start()
	defer poller.Stop()

	select {
	case ev := <-ch:
		if ev.Kind != EventStats {
			t.Errorf("event kind = %s, expected stats", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("no stats event received")
	}

	stats, fetchedAt := poller.Snapshot()
	if stats == nil {
		t.Fatal("snapshot nil after successful poll")
	}
	if stats.Machines[plant.MachineA].Total != 7 {
		t.Errorf("machine A total = %d, expected 7", stats.Machines[plant.MachineA].Total)
	}
	if fetchedAt.IsZero() {
		t.Error("fetch time not recorded")
	}
}
