package handler

import (
	"bytes"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"github.com/sangkips/brewpos-api/pkg/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PayrollHandler handles personnel payments
type PayrollHandler struct {
	payrollService *service.PayrollService
}

// NewPayrollHandler creates a new payroll handler
func NewPayrollHandler(payrollService *service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// Record stores a payment to a staff member
func (h *PayrollHandler) Record(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req request.StaffPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.RecordPaymentInput{
		StaffID: req.StaffID,
		Kind:    req.Kind,
		Period:  req.Period,
		Method:  req.Method,
		Amount:  req.Amount,
		Notes:   req.Notes,
	}
	if req.PaidAt != "" {
		paidAt, err := time.Parse(time.RFC3339, req.PaidAt)
		if err != nil {
			response.Error(c, apperror.NewFieldError("paid_at", "must be an RFC 3339 timestamp"))
			return
		}
		input.PaidAt = &paidAt
	}

	payment, err := h.payrollService.RecordPayment(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment recorded", payment)
}

// List lists payments with filtering
func (h *PayrollHandler) List(c *gin.Context) {
	filter, params, ok := bindPaymentFilter(c)
	if !ok {
		return
	}
	params.Pagination = &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage}

	result, err := h.payrollService.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}

// Export downloads the filtered payments as ?format=csv (default) or xlsx
func (h *PayrollHandler) Export(c *gin.Context) {
	filter, params, ok := bindPaymentFilter(c)
	if !ok {
		return
	}
	format := filter.Format
	if format == "" {
		format = service.ExportCSV
	}

	var buf bytes.Buffer
	if err := h.payrollService.ExportPayments(c.Request.Context(), params, format, &buf); err != nil {
		response.Error(c, err)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if format == service.ExportXLSX {
		contentType = xlsxContentType
	}
	c.Header("Content-Disposition", `attachment; filename="staff-payments.`+format+`"`)
	c.Data(200, contentType, buf.Bytes())
}

func bindPaymentFilter(c *gin.Context) (*request.StaffPaymentFilterRequest, *repository.StaffPaymentFilterParams, bool) {
	var filter request.StaffPaymentFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, nil, false
	}
	staffID, err := optionalUUID("staff_id", filter.StaffID)
	if err != nil {
		response.Error(c, err)
		return nil, nil, false
	}
	return &filter, &repository.StaffPaymentFilterParams{
		StaffID: staffID,
		Period:  filter.Period,
		Kind:    filter.Kind,
	}, true
}
