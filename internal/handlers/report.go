package handlers

import (
	"github.com/bm9tech/wrapdash/internal/report"
	"github.com/bm9tech/wrapdash/pkg/response"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the historical reporting views.
type ReportHandler struct {
	reports *report.Service
}

// NewReportHandler creates a report handler.
func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Get builds the report for the requested selection.
// GET /api/reports?type=daily&date=2024-03-01
// GET /api/reports?type=weekly&week_start=2024-03-04
// GET /api/reports?type=monthly&year=2024&month=3
// GET /api/reports?type=yearly&year=2024
func (h *ReportHandler) Get(c *gin.Context) {
	var sel report.Selection
	if err := c.ShouldBindQuery(&sel); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := report.ParseType(string(sel.Type)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := sel.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, err := h.reports.BuildReport(c.Request.Context(), sel)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, view)
}

// Current returns the most recently published report view, if any.
// GET /api/reports/current
func (h *ReportHandler) Current(c *gin.Context) {
	view := h.reports.Current()
	if view == nil {
		response.NotFound(c, "no report has been built yet")
		return
	}
	response.Success(c, view)
}
