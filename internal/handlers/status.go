package handlers

import (
	"time"

	"github.com/bm9tech/wrapdash/internal/services"
	"github.com/bm9tech/wrapdash/pkg/response"
	"github.com/gin-gonic/gin"
)

// StatusHandler serves the cached live machine status and production stats.
type StatusHandler struct {
	statusPoller *services.StatusPoller
	statsPoller  *services.StatsPoller
}

// NewStatusHandler creates a status handler.
func NewStatusHandler(statusPoller *services.StatusPoller, statsPoller *services.StatsPoller) *StatusHandler {
	return &StatusHandler{statusPoller: statusPoller, statsPoller: statsPoller}
}

// GetStatus returns the last polled machine status snapshot.
// GET /api/status
func (h *StatusHandler) GetStatus(c *gin.Context) {
	snap, fetchedAt, reachable := h.statusPoller.Snapshot()
	response.Success(c, gin.H{
		"machines":   snap,
		"fetched_at": fetchedAt.Format(time.RFC3339),
		"reachable":  reachable,
	})
}

// GetLiveStats returns the last polled production counters for today.
// GET /api/stats/live
func (h *StatusHandler) GetLiveStats(c *gin.Context) {
	stats, fetchedAt := h.statsPoller.Snapshot()
	if stats == nil {
		response.Success(c, gin.H{"stats": nil})
		return
	}
	response.Success(c, gin.H{
		"stats":      stats,
		"fetched_at": fetchedAt.Format(time.RFC3339),
	})
}
