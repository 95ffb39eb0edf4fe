package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GlobalConfigurationKey is the key of the singleton global configuration row
const GlobalConfigurationKey = "global-configuration"

// GlobalConfiguration holds settings shared by every store
type GlobalConfiguration struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Key              string    `gorm:"column:config_key;size:64;uniqueIndex;not null" json:"key"`
	Currency         string    `gorm:"size:10;default:'EUR'" json:"currency"`
	CurrencyPosition string    `gorm:"size:10;default:'after'" json:"currency_position"`
	Theme            string    `gorm:"size:20;default:'light'" json:"theme"`
	Language         string    `gorm:"size:10;default:'en'" json:"language"`
	Timezone         string    `gorm:"size:50;default:'Europe/Madrid'" json:"timezone"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating the configuration
func (g *GlobalConfiguration) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.Key == "" {
		g.Key = GlobalConfigurationKey
	}
	return nil
}

// TableName returns the table name for the GlobalConfiguration model
func (GlobalConfiguration) TableName() string {
	return "global_configurations"
}

// DefaultGlobalConfiguration returns the values used when none is stored yet
func DefaultGlobalConfiguration() GlobalConfiguration {
	return GlobalConfiguration{
		Key:              GlobalConfigurationKey,
		Currency:         "EUR",
		CurrencyPosition: "after",
		Theme:            "light",
		Language:         "en",
		Timezone:         "Europe/Madrid",
	}
}
