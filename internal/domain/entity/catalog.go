package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups catalog items on the POS screen and the storefront
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	StoreID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"store_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;not null;index" json:"slug"`
	Position  int            `gorm:"column:sort_order;default:0" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CatalogItem `gorm:"foreignKey:CategoryID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// CatalogItem is a sellable product on the menu
type CatalogItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	StoreID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"store_id"`
	CategoryID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"category_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null;default:0" json:"-"` // Stored in cents
	Available   bool           `json:"available"`
	POSVisible  bool           `gorm:"column:pos_visible" json:"pos_visible"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MarshalJSON converts the cent price to a decimal for API responses
func (i CatalogItem) MarshalJSON() ([]byte, error) {
	type Alias CatalogItem
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(i),
		Price: float64(i.Price) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new item
func (i *CatalogItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CatalogItem model
func (CatalogItem) TableName() string {
	return "catalog_items"
}

// Sellable reports whether the item may be added to a cart
func (i *CatalogItem) Sellable() bool {
	return i.Available && i.POSVisible
}
