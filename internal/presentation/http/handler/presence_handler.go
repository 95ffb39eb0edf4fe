package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
)

// PresenceHandler handles staff clock actions and time summaries
type PresenceHandler struct {
	presenceService *service.PresenceService
}

// NewPresenceHandler creates a new presence handler
func NewPresenceHandler(presenceService *service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

// Record appends a login, logout, break-start or break-end for the caller
func (h *PresenceHandler) Record(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req request.PresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: action is required")
		return
	}

	result, err := h.presenceService.Record(c.Request.Context(), actor, enum.PresenceAction(req.Action))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Presence recorded", result)
}

// Me returns the caller's summary for ?date= (default today)
func (h *PresenceHandler) Me(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		date = h.presenceService.Today(c.Request.Context())
	}

	summary, err := h.presenceService.DaySummary(c.Request.Context(), actor.StaffID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Presence summary retrieved", gin.H{"date": date, "summary": summary})
}

// Summary returns per-day summaries for ?staff_id= (default the caller)
// between ?from= and ?to=
func (h *PresenceHandler) Summary(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	staffID, err := optionalUUID("staff_id", c.Query("staff_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	target := actor.StaffID
	if staffID != nil {
		target = *staffID
	}
	from, to := h.defaultRange(c)

	result, err := h.presenceService.Summaries(c.Request.Context(), actor, target, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Presence summaries retrieved", result)
}

// Entries returns the raw presence log for the same parameters as Summary
func (h *PresenceHandler) Entries(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	staffID, err := optionalUUID("staff_id", c.Query("staff_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	target := actor.StaffID
	if staffID != nil {
		target = *staffID
	}
	from, to := h.defaultRange(c)

	entries, err := h.presenceService.Entries(c.Request.Context(), actor, target, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Presence entries retrieved", entries)
}

// Board returns every active staff member's status for ?date= (default today)
func (h *PresenceHandler) Board(c *gin.Context) {
	rows, err := h.presenceService.Board(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Presence board retrieved", rows)
}

// defaultRange reads ?from= and ?to=, each defaulting to today
func (h *PresenceHandler) defaultRange(c *gin.Context) (string, string) {
	today := h.presenceService.Today(c.Request.Context())
	return c.DefaultQuery("from", today), c.DefaultQuery("to", today)
}
