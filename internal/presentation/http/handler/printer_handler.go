package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/brewpos-api/pkg/apperror"
)

// PrinterHandler handles ticket printing
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// Ticket renders a sale's ticket as an HTML document
func (h *PrinterHandler) Ticket(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	html, err := h.printerService.RenderHTML(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(200, "text/html; charset=utf-8", html)
}

// Print sends a sale's ticket to the printer
func (h *PrinterHandler) Print(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ticket, err := h.printerService.PrintTicket(c.Request.Context(), id)
	if err != nil {
		// The ticket was built but printing failed; return it with the warning
		if ticket != nil {
			c.JSON(apperror.GetAppError(err).Code, response.APIResponse{
				Success: false,
				Message: apperror.GetAppError(err).Message,
				Data:    gin.H{"ticket": ticket},
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Ticket sent to printer", gin.H{"ticket": ticket})
}
