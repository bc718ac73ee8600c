package report

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bm9tech/wrapdash/internal/plant"
	"github.com/bm9tech/wrapdash/pkg/logger"
)

// Service runs the resolve, fetch, aggregate, project pipeline for a
// selection. Every call recomputes from scratch; nothing is cached across
// report types.
//
// Each pass carries a monotonically increasing sequence number. The
// published "current" view is only overwritten by the newest started pass,
// so a slow stale pass can never clobber the result of a later selection.
type Service struct {
	client *plant.Client

	seq uint64 // last started pass, atomic

	mu        sync.Mutex
	published uint64
	current   *View
}

// NewService creates a report service backed by the given plant client.
func NewService(client *plant.Client) *Service {
	return &Service{client: client}
}

// BuildReport runs one full resolution pass and returns its view. The
// request-scoped result is always returned; the shared current view only
// advances when no newer pass has started since.
func (s *Service) BuildReport(ctx context.Context, sel Selection) (*View, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	pass := atomic.AddUint64(&s.seq, 1)

	view, err := s.build(ctx, sel)
	if err != nil {
		return nil, err
	}

	s.publish(pass, view)
	return view, nil
}

// Current returns the most recently published view, or nil before the first
// completed pass.
func (s *Service) Current() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Service) publish(pass uint64, view *View) {
	// A newer pass has started; this result is stale and must not
	// overwrite the current view.
	if pass < atomic.LoadUint64(&s.seq) {
		logger.Debug().
			Uint64("pass", pass).
			Uint64("latest", atomic.LoadUint64(&s.seq)).
			Msg("discarding stale report pass")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if pass < s.published {
		return
	}
	s.published = pass
	s.current = view
}

func (s *Service) build(ctx context.Context, sel Selection) (*View, error) {
	switch sel.Type {
	case TypeDaily:
		return s.buildDaily(ctx, sel)
	case TypeWeekly:
		return s.buildWeekly(ctx, sel)
	case TypeMonthly:
		return s.buildMonthly(ctx, sel)
	case TypeYearly:
		return s.buildYearly(ctx, sel)
	}
	return nil, sel.Validate()
}

func (s *Service) buildDaily(ctx context.Context, sel Selection) (*View, error) {
	window, err := ResolveWindow(sel)
	if err != nil {
		return nil, err
	}

	byMachine := s.fetchWindow(ctx, window)

	shifts := make(map[plant.Machine][]ShiftSummary, len(plant.Machines))
	totals := make(map[plant.Machine]int, len(plant.Machines))
	for _, m := range plant.Machines {
		shifts[m] = SummarizeShifts(byMachine[m])
		totals[m] = CountClosed(byMachine[m])
	}

	return &View{
		Selection:  sel,
		Window:     window,
		Details:    byMachine,
		Shifts:     shifts,
		TotalRolls: totals,
		Chart:      BuildShiftChart(shifts),
	}, nil
}

func (s *Service) buildWeekly(ctx context.Context, sel Selection) (*View, error) {
	window, err := ResolveWindow(sel)
	if err != nil {
		return nil, err
	}

	byMachine := s.fetchWindow(ctx, window)

	totals := make(map[plant.Machine]int, len(plant.Machines))
	for _, m := range plant.Machines {
		totals[m] = CountClosed(byMachine[m])
	}

	days := ReduceDays(window, byMachine)

	return &View{
		Selection:  sel,
		Window:     window,
		TotalRolls: totals,
		Days:       days,
		Chart:      BuildTimeChart(days),
	}, nil
}

func (s *Service) buildMonthly(ctx context.Context, sel Selection) (*View, error) {
	sum, err := s.client.FetchMonthlySummary(ctx, sel.Year, sel.Month)
	if err != nil {
		// Backend failure renders as "no data", not as a user-facing error.
		logger.Warn().Err(err).
			Int("year", sel.Year).
			Int("month", sel.Month).
			Msg("monthly summary fetch failed")
		return &View{Selection: sel}, nil
	}

	days := DaysFromMonthly(sum)

	return &View{
		Selection:  sel,
		TotalRolls: SummaryTotalRolls(sum.Machines),
		Days:       days,
		Monthly:    sum,
		Chart:      BuildTimeChart(days),
	}, nil
}

func (s *Service) buildYearly(ctx context.Context, sel Selection) (*View, error) {
	sum, err := s.client.FetchYearlySummary(ctx, sel.Year)
	if err != nil {
		logger.Warn().Err(err).
			Int("year", sel.Year).
			Msg("yearly summary fetch failed")
		return &View{Selection: sel}, nil
	}

	days := DaysFromYearly(sum)

	return &View{
		Selection:  sel,
		TotalRolls: SummaryTotalRolls(sum.Machines),
		Days:       days,
		Yearly:     sum,
		Chart:      BuildTimeChart(days),
	}, nil
}

// fetchWindow retrieves the event log for every (date, machine) pair in the
// window, concurrently. A failed pair is logged and contributes an empty
// list; partial failure never aborts the remaining calls. Aggregation is
// order-independent, so results are concatenated as they arrive.
func (s *Service) fetchWindow(ctx context.Context, dates []string) map[plant.Machine][]plant.CompletionEvent {
	type fetchResult struct {
		machine plant.Machine
		events  []plant.CompletionEvent
	}

	results := make(chan fetchResult, len(dates)*len(plant.Machines))
	var wg sync.WaitGroup

	for _, date := range dates {
		for _, machine := range plant.Machines {
			wg.Add(1)
			go func(date string, machine plant.Machine) {
				defer wg.Done()
				events, err := s.client.FetchDetails(ctx, date, machine)
				if err != nil {
					logger.Warn().Err(err).
						Str("date", date).
						Str("machine", string(machine)).
						Msg("event log fetch failed, substituting empty list")
					events = nil
				}
				results <- fetchResult{machine: machine, events: events}
			}(date, machine)
		}
	}

	wg.Wait()
	close(results)

	byMachine := make(map[plant.Machine][]plant.CompletionEvent, len(plant.Machines))
	for _, m := range plant.Machines {
		byMachine[m] = []plant.CompletionEvent{}
	}
	for r := range results {
		byMachine[r.machine] = append(byMachine[r.machine], r.events...)
	}
	return byMachine
}
