package services

import (
	"context"
	"time"

	"github.com/bm9tech/wrapdash/internal/plant"
	"github.com/bm9tech/wrapdash/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DailySummaryService logs an end-of-day production summary shortly after
// midnight: total rolls and pieces per machine for the day that just ended.
// Log-only on purpose; the dashboard itself never persists aggregates.
type DailySummaryService struct {
	client        *plant.Client
	cronScheduler *cron.Cron
}

// NewDailySummaryService creates the end-of-day summary scheduler.
func NewDailySummaryService(client *plant.Client) *DailySummaryService {
	return &DailySummaryService{client: client}
}

// StartScheduler begins the nightly summary job.
func (s *DailySummaryService) StartScheduler() {
	s.cronScheduler = cron.New()

	if _, err := s.cronScheduler.AddFunc("10 0 * * *", s.run); err != nil {
		logger.Error().Err(err).Msg("failed to schedule daily summary job")
		return
	}

	s.cronScheduler.Start()
	logger.Info().Msg("daily summary scheduler started")
}

// StopScheduler stops the nightly job.
func (s *DailySummaryService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

func (s *DailySummaryService) run() {
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := s.client.FetchDailyStats(ctx, yesterday)
	if err != nil {
		logger.Warn().Err(err).Str("date", yesterday).Msg("daily summary fetch failed")
		return
	}

	for _, machine := range plant.Machines {
		m := stats.Machines[machine]
		logger.Info().
			Str("date", yesterday).
			Str("machine", string(machine)).
			Int("rolls", m.Total).
			Int("pieces", m.TotalPieces).
			Int("cycles", m.TotalCycles).
			Float64("duration_min", m.TotalDurationMin).
			Msg("daily production summary")
	}
}
