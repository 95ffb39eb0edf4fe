package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
)

// ReportHandler serves ledger aggregates
type ReportHandler struct {
	reportService *service.ReportService
	locator       service.Locator
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, locator service.Locator) *ReportHandler {
	return &ReportHandler{reportService: reportService, locator: locator}
}

// Summary returns gross, refunded and net revenue for the range
func (h *ReportHandler) Summary(c *gin.Context) {
	_, rng, ok := h.bind(c)
	if !ok {
		return
	}
	summary, err := h.reportService.Summary(c.Request.Context(), rng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Summary retrieved successfully", summary)
}

// Daily returns per-day totals
func (h *ReportHandler) Daily(c *gin.Context) {
	_, rng, ok := h.bind(c)
	if !ok {
		return
	}
	days, err := h.reportService.Daily(c.Request.Context(), rng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Daily sales retrieved successfully", days)
}

// TopItems returns the best selling items
func (h *ReportHandler) TopItems(c *gin.Context) {
	req, rng, ok := h.bind(c)
	if !ok {
		return
	}
	items, err := h.reportService.TopItems(c.Request.Context(), rng, req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Top items retrieved successfully", items)
}

// ByStaff returns totals per staff member
func (h *ReportHandler) ByStaff(c *gin.Context) {
	_, rng, ok := h.bind(c)
	if !ok {
		return
	}
	rows, err := h.reportService.ByStaff(c.Request.Context(), rng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Staff sales retrieved successfully", rows)
}

func (h *ReportHandler) bind(c *gin.Context) (*request.ReportRequest, service.ReportRange, bool) {
	var req request.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, service.ReportRange{}, false
	}
	rng, err := parseRange(req.From, req.To, h.locator.Location(c.Request.Context()))
	if err != nil {
		response.Error(c, err)
		return nil, service.ReportRange{}, false
	}
	return &req, rng, true
}
