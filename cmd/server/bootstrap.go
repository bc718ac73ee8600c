package main

import (
	"time"

	"github.com/bm9tech/wrapdash/internal/config"
	"github.com/bm9tech/wrapdash/internal/handlers"
	"github.com/bm9tech/wrapdash/internal/models"
	"github.com/bm9tech/wrapdash/internal/plant"
	"github.com/bm9tech/wrapdash/internal/report"
	"github.com/bm9tech/wrapdash/internal/services"
	"github.com/bm9tech/wrapdash/internal/utils"
	"github.com/bm9tech/wrapdash/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	plantClient    *plant.Client
	reportService  *report.Service
	statusPoller   *services.StatusPoller
	statsPoller    *services.StatsPoller
	dailySummary   *services.DailySummaryService
	authHandler    *handlers.AuthHandler
	reportHandler  *handlers.ReportHandler
	statusHandler  *handlers.StatusHandler
	controlHandler *handlers.ControlHandler
	sseHandler     *handlers.SSEHandler
}

// bootstrap initializes all application dependencies: database, backend
// client, pollers, schedulers, handlers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database (operator accounts + control audit trail)
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Plant backend client and reporting pipeline
	plantClient := plant.NewClient(&cfg.Plant)
	reportService := report.NewService(plantClient)

	// Live polling loops feeding the SSE hub
	hub := services.GetSSEHub()
	statusPoller := services.NewStatusPoller(plantClient, hub,
		time.Duration(cfg.Polling.StatusIntervalMS)*time.Millisecond)
	statsPoller := services.NewStatsPoller(plantClient, hub,
		time.Duration(cfg.Polling.StatsIntervalMS)*time.Millisecond)
	statusPoller.Start()
	statsPoller.Start()

	// End-of-day production summary job
	dailySummary := services.NewDailySummaryService(plantClient)
	dailySummary.StartScheduler()

	// Control dispatch with audit trail
	controlService := services.NewControlService(plantClient, models.GetDB(), statusPoller)

	// Create default admin user
	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		plantClient:    plantClient,
		reportService:  reportService,
		statusPoller:   statusPoller,
		statsPoller:    statsPoller,
		dailySummary:   dailySummary,
		authHandler:    authHandler,
		reportHandler:  handlers.NewReportHandler(reportService),
		statusHandler:  handlers.NewStatusHandler(statusPoller, statsPoller),
		controlHandler: handlers.NewControlHandler(controlService),
		sseHandler:     handlers.NewSSEHandler(hub),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.dailySummary.StopScheduler()
	s.statusPoller.Stop()
	s.statsPoller.Stop()
	logger.Info().Msg("All pollers and schedulers stopped")
}
