package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateStaffRequest represents a staff creation request
type CreateStaffRequest struct {
	Name             string               `json:"name" binding:"required,max=255"`
	Email            string               `json:"email" binding:"required,email"`
	Role             string               `json:"role" binding:"required"`
	Password         string               `json:"password" binding:"required,min=8"`
	PIN              string               `json:"pin"`
	PersonalInfo     *PersonalInfoRequest `json:"personal_info"`
	BankInfo         *BankInfoRequest     `json:"bank_info"`
	PermissionGrants []string             `json:"permission_grants"`
}

// UpdateStaffRequest represents a staff update request
type UpdateStaffRequest struct {
	Name             *string              `json:"name" binding:"omitempty,max=255"`
	Role             *string              `json:"role"`
	Password         *string              `json:"password" binding:"omitempty,min=8"`
	PIN              *string              `json:"pin"`
	PersonalInfo     *PersonalInfoRequest `json:"personal_info"`
	BankInfo         *BankInfoRequest     `json:"bank_info"`
	PermissionGrants *[]string            `json:"permission_grants"`
}

// PersonalInfoRequest carries a staff member's personal details
type PersonalInfoRequest struct {
	Phone            string `json:"phone" binding:"max=50"`
	Address          string `json:"address" binding:"max=500"`
	DateOfBirth      string `json:"date_of_birth"`
	NationalID       string `json:"national_id" binding:"max=50"`
	EmergencyContact string `json:"emergency_contact" binding:"max=255"`
}

// BankInfoRequest carries the account salaries are paid into
type BankInfoRequest struct {
	BankName      string `json:"bank_name" binding:"max=255"`
	AccountHolder string `json:"account_holder" binding:"max=255"`
	IBAN          string `json:"iban" binding:"max=50"`
}

// StaffFilterRequest represents staff filter parameters
type StaffFilterRequest struct {
	Search     string `form:"search"`
	Role       string `form:"role"`
	ActiveOnly bool   `form:"active_only"`
	Format     string `form:"format"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// PresenceRequest records a clock action
type PresenceRequest struct {
	Action string `json:"action" binding:"required"`
}

// StaffPaymentRequest represents a personnel payment
type StaffPaymentRequest struct {
	StaffID uuid.UUID       `json:"staff_id" binding:"required"`
	Kind    string          `json:"kind" binding:"required"`
	Period  string          `json:"period" binding:"required"`
	Method  string          `json:"method" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
	Notes   string          `json:"notes" binding:"max=500"`
	PaidAt  string          `json:"paid_at"`
}

// StaffPaymentFilterRequest represents payment filter parameters
type StaffPaymentFilterRequest struct {
	StaffID string `form:"staff_id"`
	Period  string `form:"period"`
	Kind    string `form:"kind"`
	Format  string `form:"format"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
