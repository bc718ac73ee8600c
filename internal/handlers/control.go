package handlers

import (
	"errors"

	"github.com/bm9tech/wrapdash/internal/middleware"
	"github.com/bm9tech/wrapdash/internal/services"
	"github.com/bm9tech/wrapdash/pkg/response"
	"github.com/gin-gonic/gin"
)

// ControlHandler forwards operator commands to the machines.
type ControlHandler struct {
	control *services.ControlService
}

// NewControlHandler creates a control handler.
func NewControlHandler(control *services.ControlService) *ControlHandler {
	return &ControlHandler{control: control}
}

type controlRequest struct {
	Command string `json:"command" binding:"required"`
}

// Dispatch sends a START/STOP/RESET command to one machine. A backend
// rejection is surfaced to the operator; this is the one error path that is
// never reduced to "no data".
// POST /api/control/:machine_id
func (h *ControlHandler) Dispatch(c *gin.Context) {
	var req controlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	machineID := c.Param("machine_id")
	operator := middleware.GetUsername(c)

	err := h.control.Dispatch(c.Request.Context(), machineID, req.Command, operator, c.ClientIP())
	switch {
	case err == nil:
		response.Success(c, gin.H{
			"machine": machineID,
			"command": req.Command,
		})
	case errors.Is(err, services.ErrUnknownMachine):
		response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidCommand):
		response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDispatchFailed):
		response.BadGateway(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}

// Audits lists recent control dispatches, newest first.
// GET /api/control/audit?limit=50
func (h *ControlHandler) Audits(c *gin.Context) {
	var query struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entries, err := h.control.RecentAudits(query.Limit)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, entries)
}
