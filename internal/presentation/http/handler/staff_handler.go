package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/brewpos-api/pkg/pagination"
)

// StaffHandler handles staff management
type StaffHandler struct {
	staffService *service.StaffService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// List lists the store's staff
func (h *StaffHandler) List(c *gin.Context) {
	var filter request.StaffFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.staffService.ListStaff(c.Request.Context(), &repository.StaffFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		Role:       enum.StaffRole(filter.Role),
		ActiveOnly: filter.ActiveOnly,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Staff retrieved successfully", result)
}

// Create adds a staff member
func (h *StaffHandler) Create(c *gin.Context) {
	var req request.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	staff, err := h.staffService.CreateStaff(c.Request.Context(), &service.CreateStaffInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     enum.StaffRole(req.Role),
		Password: req.Password,
		PIN:      req.PIN,
		Personal: personalInfo(req.PersonalInfo),
		Bank:     bankInfo(req.BankInfo),
		Grants:   req.PermissionGrants,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Staff member created successfully", staff)
}

// Get returns one staff member
func (h *StaffHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	staff, err := h.staffService.GetStaff(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Staff member retrieved successfully", staff)
}

// Update changes a staff member's profile, role, grants or credentials
func (h *StaffHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateStaffInput{
		Name:     req.Name,
		Password: req.Password,
		PIN:      req.PIN,
		Grants:   req.PermissionGrants,
	}
	if req.Role != nil {
		role := enum.StaffRole(*req.Role)
		input.Role = &role
	}
	if req.PersonalInfo != nil {
		personal := personalInfo(req.PersonalInfo)
		input.Personal = &personal
	}
	if req.BankInfo != nil {
		bank := bankInfo(req.BankInfo)
		input.Bank = &bank
	}

	staff, err := h.staffService.UpdateStaff(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Staff member updated successfully", staff)
}

// Deactivate disables a staff member's logins
func (h *StaffHandler) Deactivate(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	staff, err := h.staffService.DeactivateStaff(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Staff member deactivated", staff)
}

// Export downloads the personnel records as ?format=csv (default) or xlsx
func (h *StaffHandler) Export(c *gin.Context) {
	var filter request.StaffFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	format := filter.Format
	if format == "" {
		format = service.ExportCSV
	}

	var buf bytes.Buffer
	err := h.staffService.ExportStaff(c.Request.Context(), &repository.StaffFilterParams{
		Search:     filter.Search,
		Role:       enum.StaffRole(filter.Role),
		ActiveOnly: filter.ActiveOnly,
	}, format, &buf)
	if err != nil {
		response.Error(c, err)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if format == service.ExportXLSX {
		contentType = xlsxContentType
	}
	c.Header("Content-Disposition", `attachment; filename="staff.`+format+`"`)
	c.Data(200, contentType, buf.Bytes())
}

func personalInfo(req *request.PersonalInfoRequest) entity.PersonalInfo {
	if req == nil {
		return entity.PersonalInfo{}
	}
	return entity.PersonalInfo{
		Phone:            req.Phone,
		Address:          req.Address,
		DateOfBirth:      req.DateOfBirth,
		NationalID:       req.NationalID,
		EmergencyContact: req.EmergencyContact,
	}
}

func bankInfo(req *request.BankInfoRequest) entity.BankInfo {
	if req == nil {
		return entity.BankInfo{}
	}
	return entity.BankInfo{
		BankName:      req.BankName,
		AccountHolder: req.AccountHolder,
		IBAN:          req.IBAN,
	}
}
