package handlers

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bm9tech/wrapdash/internal/models"
	"github.com/bm9tech/wrapdash/internal/services"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Metrics returns Prometheus-compatible text format metrics.
func Metrics(statusPoller *services.StatusPoller) gin.HandlerFunc {
	return func(c *gin.Context) {
		var b strings.Builder

		// -- Runtime metrics --
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		writeGauge(&b, "wrapdash_uptime_seconds", "Time since server start in seconds", float64(time.Since(startTime).Seconds()))
		writeGauge(&b, "wrapdash_goroutines", "Number of active goroutines", float64(runtime.NumGoroutine()))
		writeGauge(&b, "wrapdash_memory_alloc_bytes", "Current heap allocation in bytes", float64(m.Alloc))
		writeGauge(&b, "wrapdash_gc_runs_total", "Total number of GC runs", float64(m.NumGC))

		// -- Database metrics --
		db := models.GetDB()
		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				stats := sqlDB.Stats()
				writeGauge(&b, "wrapdash_db_open_connections", "Number of open DB connections", float64(stats.OpenConnections))
				writeGauge(&b, "wrapdash_db_in_use_connections", "Number of in-use DB connections", float64(stats.InUse))
			}

			var auditCount, failedDispatches int64
			db.Model(&models.ControlAudit{}).Count(&auditCount)
			db.Model(&models.ControlAudit{}).Where("success = ?", false).Count(&failedDispatches)
			writeGauge(&b, "wrapdash_control_dispatches_total", "Total control commands dispatched", float64(auditCount))
			writeGauge(&b, "wrapdash_control_dispatches_failed", "Control commands rejected by the backend", float64(failedDispatches))
		}

		// -- SSE metrics --
		if hub := services.GetSSEHub(); hub != nil {
			writeGauge(&b, "wrapdash_sse_active_clients", "Number of active SSE connections", float64(hub.ClientCount()))
		}

		// -- Plant backend reachability --
		reachableVal := 0.0
		if statusPoller != nil {
			if _, _, reachable := statusPoller.Snapshot(); reachable {
				reachableVal = 1.0
			}
		}
		writeGauge(&b, "wrapdash_plant_backend_up", "Whether the plant backend responded to the last status poll (1=yes, 0=no)", reachableVal)

		c.Data(200, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
	}
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s gauge\n", name)
	fmt.Fprintf(b, "%s %g\n\n", name, value)
}
