package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Staff represents a person who works at a store and signs in to the POS
type Staff struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	StoreID      uuid.UUID                   `gorm:"type:uuid;not null;index" json:"store_id"`
	Name         string                      `gorm:"size:255;not null" json:"name"`
	Email        string                      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role         enum.StaffRole              `gorm:"size:20;not null;default:'cashier'" json:"role"`
	PasswordHash string                      `gorm:"size:255" json:"-"`
	PINHash      string                      `gorm:"size:255" json:"-"`
	Active       bool                        `json:"active"`
	Personal     PersonalInfo                `gorm:"embedded;embeddedPrefix:personal_" json:"personal_info"`
	Bank         BankInfo                    `gorm:"embedded;embeddedPrefix:bank_" json:"bank_info"`
	Grants       datatypes.JSONSlice[string] `gorm:"default:'[]'" json:"permission_grants"` // on top of the role's permissions
	LastLoginAt  *time.Time                  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	DeletedAt    gorm.DeletedAt              `gorm:"index" json:"-"`

	// Relationships
	Store Store `gorm:"foreignKey:StoreID" json:"-"`
}

// PersonalInfo holds the HR details of a staff member
type PersonalInfo struct {
	Phone            string `gorm:"size:50" json:"phone"`
	Address          string `gorm:"size:500" json:"address"`
	DateOfBirth      string `gorm:"size:10" json:"date_of_birth"` // YYYY-MM-DD
	NationalID       string `gorm:"size:50" json:"national_id"`
	EmergencyContact string `gorm:"size:255" json:"emergency_contact"`
}

// BankInfo is where salaries are transferred to
type BankInfo struct {
	BankName      string `gorm:"size:255" json:"bank_name"`
	AccountHolder string `gorm:"size:255" json:"account_holder"`
	IBAN          string `gorm:"size:34" json:"iban"`
}

// BeforeCreate generates a UUID before creating a new staff member
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Staff model
func (Staff) TableName() string {
	return "staff"
}

// Permissions returns the role's permissions followed by any extra grants
func (s *Staff) Permissions() []string {
	perms := s.Role.Permissions()
	for _, g := range s.Grants {
		if !containsString(perms, g) {
			perms = append(perms, g)
		}
	}
	return perms
}

// HasPermission checks whether the role or a grant gives perm
func (s *Staff) HasPermission(perm string) bool {
	return containsString(s.Permissions(), perm)
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
