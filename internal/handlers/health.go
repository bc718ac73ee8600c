package handlers

import (
	"github.com/bm9tech/wrapdash/internal/models"
	"github.com/bm9tech/wrapdash/internal/services"
	"github.com/gin-gonic/gin"
)

// HealthHandler provides enhanced health check endpoints.
type HealthHandler struct {
	statusPoller *services.StatusPoller
}

func NewHealthHandler(statusPoller *services.StatusPoller) *HealthHandler {
	return &HealthHandler{statusPoller: statusPoller}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	// Database check
	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	// Plant backend reachability (from the last status poll)
	backendStatus := "ok"
	_, _, reachable := h.statusPoller.Snapshot()
	if !reachable {
		backendStatus = "unreachable"
		overall = "degraded"
	}

	// SSE connections
	sseClients := services.GetSSEHub().ClientCount()

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "wrapdash",
		"components": gin.H{
			"database":      dbStatus,
			"plant_backend": backendStatus,
			"sse_clients":   sseClients,
		},
	})
}
