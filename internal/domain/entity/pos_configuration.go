package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Configuration section names accepted by the section update endpoint
const (
	SectionLayout  = "layout"
	SectionColors  = "colors"
	SectionTaxes   = "taxes"
	SectionDisplay = "display"
)

// POSConfiguration holds the per-store POS settings, persisted as one JSON blob
type POSConfiguration struct {
	ID        uuid.UUID                       `gorm:"type:uuid;primary_key" json:"id"`
	StoreID   uuid.UUID                       `gorm:"type:uuid;not null;uniqueIndex" json:"store_id"`
	Settings  datatypes.JSONType[POSSettings] `json:"settings"`
	UpdatedBy *uuid.UUID                      `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt time.Time                       `json:"created_at"`
	UpdatedAt time.Time                       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new configuration
func (c *POSConfiguration) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the POSConfiguration model
func (POSConfiguration) TableName() string {
	return "pos_configurations"
}

// POSSettings is the nested settings record read by the POS views
type POSSettings struct {
	Layout  LayoutSettings  `json:"layout"`
	Colors  ColorSettings   `json:"colors"`
	Taxes   TaxSettings     `json:"taxes"`
	Display DisplaySettings `json:"display"`
}

// LayoutSettings controls how the POS grid is drawn
type LayoutSettings struct {
	SectionsPerRow  int  `json:"sections_per_row"`
	ItemsPerSection int  `json:"items_per_section"`
	ShowImages      bool `json:"show_images"`
	CompactMode     bool `json:"compact_mode"`
}

// ColorSettings holds the POS palette as hex colors
type ColorSettings struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	Success   string `json:"success"`
	Warning   string `json:"warning"`
	Danger    string `json:"danger"`
}

// TaxSettings configures the tax engine for the store
type TaxSettings struct {
	DefaultTaxRate float64           `json:"default_tax_rate"`
	TaxName        string            `json:"tax_name"`
	IncludeInPrice bool              `json:"include_in_price"`
	RoundingMode   enum.RoundingMode `json:"rounding_mode"`
}

// DisplaySettings controls price and feature visibility on the POS
type DisplaySettings struct {
	ShowDescriptions bool   `json:"show_descriptions"`
	ShowPrices       bool   `json:"show_prices"`
	Currency         string `json:"currency"`
	CurrencyPosition string `json:"currency_position"` // before, after
	ShowCardPayment  bool   `json:"show_card_payment"`
}

// DefaultPOSSettings returns the settings a new store starts with
func DefaultPOSSettings() POSSettings {
	return POSSettings{
		Layout: LayoutSettings{
			SectionsPerRow:  3,
			ItemsPerSection: 8,
			ShowImages:      true,
		},
		Colors: ColorSettings{
			Primary:   "#6F4E37",
			Secondary: "#C0A080",
			Accent:    "#D4A373",
			Success:   "#2E7D32",
			Warning:   "#ED6C02",
			Danger:    "#D32F2F",
		},
		Taxes: TaxSettings{
			DefaultTaxRate: 10,
			TaxName:        "VAT",
			IncludeInPrice: true,
			RoundingMode:   enum.RoundingHalfUp,
		},
		Display: DisplaySettings{
			ShowDescriptions: true,
			ShowPrices:       true,
			Currency:         "EUR",
			CurrencyPosition: "after",
			ShowCardPayment:  true,
		},
	}
}
