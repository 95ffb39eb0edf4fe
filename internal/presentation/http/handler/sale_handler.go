package handler

import (
	"bytes"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/internal/domain/pos"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"github.com/sangkips/brewpos-api/pkg/pagination"
)

// SaleHandler handles checkout, the ledger and refunds
type SaleHandler struct {
	saleService *service.SaleService
	locator     service.Locator
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, locator service.Locator) *SaleHandler {
	return &SaleHandler{saleService: saleService, locator: locator}
}

// Checkout turns the cart into a sale
// @Summary Checkout
// @Tags sales
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.CheckoutRequest true "Payment"
// @Success 201 {object} response.APIResponse
// @Router /sales/checkout [post]
func (h *SaleHandler) Checkout(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.saleService.Checkout(c.Request.Context(), actor, &service.CheckoutInput{
		PaymentMethod: enum.PaymentMethod(strings.ToLower(req.PaymentMethod)),
		Notes:         req.Notes,
		Tags:          req.Tags,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale completed", sale)
}

// List returns the filtered ledger, newest first
func (h *SaleHandler) List(c *gin.Context) {
	input, ok := h.listInput(c)
	if !ok {
		return
	}
	result, err := h.saleService.ListSales(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Export downloads the filtered ledger as CSV
func (h *SaleHandler) Export(c *gin.Context) {
	input, ok := h.listInput(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.saleService.ExportCSV(c.Request.Context(), input, &buf); err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="sales.csv"`)
	c.Data(200, "text/csv; charset=utf-8", buf.Bytes())
}

// Get returns one sale with its lines
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", sale)
}

// Refund returns part or all of a sale
// @Summary Refund
// @Tags sales
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.RefundRequest true "Refund"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /sales/{id}/refund [post]
func (h *SaleHandler) Refund(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.saleService.Refund(c.Request.Context(), actor, id, &service.RefundInput{
		Amount: req.Amount,
		Reason: req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Refund recorded", sale)
}

func (h *SaleHandler) listInput(c *gin.Context) (*service.SaleListInput, bool) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}

	loc := h.locator.Location(c.Request.Context())
	rng, err := parseRange(filter.From, filter.To, loc)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	staffID, err := optionalUUID("staff_id", filter.StaffID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}

	status := enum.SaleStatus(filter.Status)
	if status != "" && !status.IsValid() {
		response.Error(c, apperror.NewFieldError("status", "must be completed, partially-refunded or refunded"))
		return nil, false
	}
	method := enum.PaymentMethod(filter.PaymentMethod)
	if method != "" && !method.IsValid() {
		response.Error(c, apperror.NewFieldError("payment_method", "must be cash or card"))
		return nil, false
	}

	return &service.SaleListInput{
		From: rng.From,
		To:   rng.To,
		Filter: pos.SaleFilter{
			Status:        status,
			PaymentMethod: method,
			StaffID:       staffID,
			Search:        filter.Search,
		},
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
	}, true
}
