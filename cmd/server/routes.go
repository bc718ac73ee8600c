package main

import (
	"github.com/bm9tech/wrapdash/internal/handlers"
	"github.com/bm9tech/wrapdash/internal/middleware"
	"github.com/bm9tech/wrapdash/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for control routes: commands move physical machinery
	controlLimiter := middleware.NewRateLimiter(5, 10)

	// Health and metrics
	healthHandler := handlers.NewHealthHandler(svc.statusPoller)
	r.GET("/health", healthHandler.CheckHealth)
	r.GET("/metrics", handlers.Metrics(svc.statusPoller))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.authHandler.Login)
		}

		// SSE events (public route with internal token validation,
		// EventSource cannot set an Authorization header)
		api.GET("/events", svc.sseHandler.StreamEvents)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			// Reports
			protected.GET("/reports", svc.reportHandler.Get)
			protected.GET("/reports/current", svc.reportHandler.Current)

			// Live monitoring
			protected.GET("/status", svc.statusHandler.GetStatus)
			protected.GET("/stats/live", svc.statusHandler.GetLiveStats)

			// Machine control
			control := protected.Group("", controlLimiter.Middleware())
			{
				control.POST("/control/:machine_id", svc.controlHandler.Dispatch)
			}
			protected.GET("/control/audit", svc.controlHandler.Audits)
		}
	}
}
