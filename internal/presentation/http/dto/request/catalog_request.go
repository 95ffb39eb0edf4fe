package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryRequest represents a category create or update request
type CategoryRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Position int    `json:"position" binding:"min=0"`
}

// ItemRequest represents a catalog item create or update request
type ItemRequest struct {
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   *bool           `json:"available"`
	POSVisible  *bool           `json:"pos_visible"`
}

// ToggleRequest sets an item flag
type ToggleRequest struct {
	Value *bool `json:"value" binding:"required"`
}

// ItemFilterRequest represents catalog item filter parameters
type ItemFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	Available  *bool  `form:"available"`
	POSVisible *bool  `form:"pos_visible"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// MenuImportRequest is the JSON form of a menu table import
type MenuImportRequest struct {
	Table          string `json:"table" binding:"required"`
	KeepDuplicates bool   `json:"keep_duplicates"`
}
