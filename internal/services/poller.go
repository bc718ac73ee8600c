package services

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/bm9tech/wrapdash/internal/plant"
	"github.com/bm9tech/wrapdash/pkg/logger"
)

// StatusPoller polls the plant backend machine status on a fixed cadence
// (1s by default) and pushes changes to the SSE hub. It also serves the last
// snapshot to the /api/status handler so the UI never hits the backend
// directly. The poller runs independently of the reporting pipeline.
type StatusPoller struct {
	client   *plant.Client
	hub      *SSEHub
	interval time.Duration

	mu        sync.RWMutex
	last      plant.StatusSnapshot
	fetchedAt time.Time
	reachable bool

	refresh chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

// NewStatusPoller creates a status poller. Start must be called to begin polling.
func NewStatusPoller(client *plant.Client, hub *SSEHub, interval time.Duration) *StatusPoller {
	if interval <= 0 {
		interval = time.Second
	}
	return &StatusPoller{
		client:   client,
		hub:      hub,
		interval: interval,
		refresh:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop.
func (p *StatusPoller) Start() {
	go p.loop()
	logger.Info().Dur("interval", p.interval).Msg("status poller started")
}

// Stop terminates the polling loop and waits for it to exit.
func (p *StatusPoller) Stop() {
	close(p.stop)
	<-p.done
}

// RefreshNow schedules one immediate out-of-band poll, e.g. right after a
// control command so the UI reflects the new machine state without waiting
// a full tick. Non-blocking; coalesces with a pending refresh.
func (p *StatusPoller) RefreshNow() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Snapshot returns the last known status, its fetch time, and whether the
// backend was reachable on the last poll.
func (p *StatusPoller) Snapshot() (plant.StatusSnapshot, time.Time, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.fetchedAt, p.reachable
}

func (p *StatusPoller) loop() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll()
	for {
		select {
		case <-ticker.C:
			p.poll()
		case <-p.refresh:
			p.poll()
		case <-p.stop:
			return
		}
	}
}

func (p *StatusPoller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval*3)
	defer cancel()

	snap, err := p.client.FetchStatus(ctx)

	p.mu.Lock()
	prev := p.last
	wasReachable := p.reachable
	if err != nil {
		p.reachable = false
	} else {
		p.last = snap
		p.fetchedAt = time.Now()
		p.reachable = true
	}
	p.mu.Unlock()

	if err != nil {
		if wasReachable {
			logger.Warn().Err(err).Msg("status poll failed, backend unreachable")
		}
		return
	}
	if !wasReachable {
		logger.Info().Msg("backend reachable, status polling resumed")
	}

	// Push only on change; at 1 Hz an unchanged snapshot is just noise.
	if !reflect.DeepEqual(prev, snap) {
		p.hub.Publish(DashboardEvent{Kind: EventStatus, Payload: snap})
	}
}

// StatsPoller polls today's aggregated production counters every few seconds
// (5s by default) for the live counters shown on the machine panels.
type StatsPoller struct {
	client   *plant.Client
	hub      *SSEHub
	interval time.Duration

	mu        sync.RWMutex
	last      *plant.DailyStats
	fetchedAt time.Time

	stop chan struct{}
	done chan struct{}
}

// NewStatsPoller creates a live stats poller. Start must be called to begin polling.
func NewStatsPoller(client *plant.Client, hub *SSEHub, interval time.Duration) *StatsPoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &StatsPoller{
		client:   client,
		hub:      hub,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop.
func (p *StatsPoller) Start() {
	go p.loop()
	logger.Info().Dur("interval", p.interval).Msg("live stats poller started")
}

// Stop terminates the polling loop and waits for it to exit.
func (p *StatsPoller) Stop() {
	close(p.stop)
	<-p.done
}

// Snapshot returns the last fetched stats and their fetch time. The stats
// pointer is nil until the first successful poll.
func (p *StatsPoller) Snapshot() (*plant.DailyStats, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.fetchedAt
}

func (p *StatsPoller) loop() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll()
	for {
		select {
		case <-ticker.C:
			p.poll()
		case <-p.stop:
			return
		}
	}
}

func (p *StatsPoller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	stats, err := p.client.FetchDailyStats(ctx, "")
	if err != nil {
		logger.Debug().Err(err).Msg("live stats poll failed")
		return
	}

	p.mu.Lock()
	changed := p.last == nil || !reflect.DeepEqual(*p.last, *stats)
	p.last = stats
	p.fetchedAt = time.Now()
	p.mu.Unlock()

	if changed {
		p.hub.Publish(DashboardEvent{Kind: EventStats, Payload: stats})
	}
}
