package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/clock"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/internal/infrastructure/events"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var (
	hexColorPattern     = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	languagePattern     = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)
)

// Layout bounds accepted for the POS grid
const (
	maxSectionsPerRow  = 6
	maxItemsPerSection = 50
	maxTaxNameLength   = 50
)

// POSConfigService handles the per-store POS configuration
type POSConfigService struct {
	repo  repository.POSConfigRepository
	bus   events.Bus
	clock clock.Clock
	log   *zap.Logger
}

// NewPOSConfigService creates a new POS configuration service
func NewPOSConfigService(repo repository.POSConfigRepository, bus events.Bus, clk clock.Clock, log *zap.Logger) *POSConfigService {
	return &POSConfigService{
		repo:  repo,
		bus:   bus,
		clock: clk,
		log:   loggerOrNop(log),
	}
}

// GetConfig returns the store's configuration, creating the defaults on first read
func (s *POSConfigService) GetConfig(ctx context.Context, storeID uuid.UUID) (*entity.POSConfiguration, error) {
	cfg, err := s.repo.GetByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	cfg = &entity.POSConfiguration{
		StoreID:  storeID,
		Settings: datatypes.NewJSONType(entity.DefaultPOSSettings()),
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		// a concurrent first read may have created it
		if existing, getErr := s.repo.GetByStoreID(ctx, storeID); getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Settings returns the store's settings record
func (s *POSConfigService) Settings(ctx context.Context, storeID uuid.UUID) (entity.POSSettings, error) {
	cfg, err := s.GetConfig(ctx, storeID)
	if err != nil {
		return entity.POSSettings{}, err
	}
	return cfg.Settings.Data(), nil
}

// UpdateSection replaces one section of the store's configuration. The
// payload must carry the complete section; unknown fields are rejected.
func (s *POSConfigService) UpdateSection(ctx context.Context, actor Actor, section string, payload json.RawMessage) (*entity.POSConfiguration, error) {
	cfg, err := s.GetConfig(ctx, actor.StoreID)
	if err != nil {
		return nil, err
	}
	settings := cfg.Settings.Data()

	switch section {
	case entity.SectionLayout:
		var layout entity.LayoutSettings
		if err := decodeSection(payload, &layout); err != nil {
			return nil, err
		}
		if err := validateLayout(layout); err != nil {
			return nil, err
		}
		settings.Layout = layout
	case entity.SectionColors:
		var colors entity.ColorSettings
		if err := decodeSection(payload, &colors); err != nil {
			return nil, err
		}
		if err := validateColors(colors); err != nil {
			return nil, err
		}
		settings.Colors = colors
	case entity.SectionTaxes:
		var taxes entity.TaxSettings
		if err := decodeSection(payload, &taxes); err != nil {
			return nil, err
		}
		if err := validateTaxes(taxes); err != nil {
			return nil, err
		}
		settings.Taxes = taxes
	case entity.SectionDisplay:
		var display entity.DisplaySettings
		if err := decodeSection(payload, &display); err != nil {
			return nil, err
		}
		if err := validateDisplay(display); err != nil {
			return nil, err
		}
		settings.Display = display
	default:
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Configuration section %q", section))
	}

	cfg.Settings = datatypes.NewJSONType(settings)
	updatedBy := actor.StaffID
	cfg.UpdatedBy = &updatedBy
	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.log.Info("pos configuration updated",
		zap.String("store_id", actor.StoreID.String()),
		zap.String("section", section),
		zap.String("by", actor.StaffID.String()),
	)
	publish(ctx, s.bus, s.log, events.TopicConfigChanged, events.KindPOSConfigUpdated, actor.StoreID, settings, s.clock.Now())
	return cfg, nil
}

func decodeSection(payload json.RawMessage, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.NewBadRequestError("Invalid section payload: " + err.Error())
	}
	return nil
}

func validateLayout(l entity.LayoutSettings) error {
	var fieldErrors []apperror.FieldError
	if l.SectionsPerRow < 1 || l.SectionsPerRow > maxSectionsPerRow {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "sections_per_row",
			Message: fmt.Sprintf("must be between 1 and %d", maxSectionsPerRow),
		})
	}
	if l.ItemsPerSection < 1 || l.ItemsPerSection > maxItemsPerSection {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "items_per_section",
			Message: fmt.Sprintf("must be between 1 and %d", maxItemsPerSection),
		})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func validateColors(c entity.ColorSettings) error {
	colors := []struct {
		field string
		value string
	}{
		{"primary", c.Primary},
		{"secondary", c.Secondary},
		{"accent", c.Accent},
		{"success", c.Success},
		{"warning", c.Warning},
		{"danger", c.Danger},
	}

	var fieldErrors []apperror.FieldError
	for _, col := range colors {
		if !hexColorPattern.MatchString(col.value) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: col.field, Message: "must be a hex color such as #6F4E37"})
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func validateTaxes(t entity.TaxSettings) error {
	var fieldErrors []apperror.FieldError
	if t.DefaultTaxRate < 0 || t.DefaultTaxRate > 100 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "default_tax_rate", Message: "must be between 0 and 100"})
	}
	name := strings.TrimSpace(t.TaxName)
	if name == "" || len(name) > maxTaxNameLength {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "tax_name", Message: "is required and at most 50 characters"})
	}
	if !t.RoundingMode.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "rounding_mode", Message: "must be half-up, half-even, up or down"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func validateDisplay(d entity.DisplaySettings) error {
	var fieldErrors []apperror.FieldError
	if !currencyCodePattern.MatchString(d.Currency) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "currency", Message: "must be an ISO 4217 code such as EUR"})
	}
	if err := validateCurrencyPosition(d.CurrencyPosition); err != nil {
		fieldErrors = append(fieldErrors, *err)
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func validateCurrencyPosition(position string) *apperror.FieldError {
	if position != "before" && position != "after" {
		return &apperror.FieldError{Field: "currency_position", Message: "must be before or after"}
	}
	return nil
}

// GlobalConfigService handles the configuration shared by every store
type GlobalConfigService struct {
	repo  repository.GlobalConfigRepository
	bus   events.Bus
	clock clock.Clock
	log   *zap.Logger
}

// NewGlobalConfigService creates a new global configuration service
func NewGlobalConfigService(repo repository.GlobalConfigRepository, bus events.Bus, clk clock.Clock, log *zap.Logger) *GlobalConfigService {
	return &GlobalConfigService{
		repo:  repo,
		bus:   bus,
		clock: clk,
		log:   loggerOrNop(log),
	}
}

// GlobalConfigInput represents the replace global configuration input
type GlobalConfigInput struct {
	Currency         string
	CurrencyPosition string
	Theme            string
	Language         string
	Timezone         string
}

// GetConfig returns the global configuration, creating the defaults on first read
func (s *GlobalConfigService) GetConfig(ctx context.Context) (*entity.GlobalConfiguration, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	defaults := entity.DefaultGlobalConfiguration()
	if err := s.repo.Save(ctx, &defaults); err != nil {
		return nil, err
	}
	return &defaults, nil
}

// Location returns the configured timezone, or UTC when it cannot be loaded
func (s *GlobalConfigService) Location(ctx context.Context) *time.Location {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return time.UTC
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ReplaceConfig overwrites every global setting
func (s *GlobalConfigService) ReplaceConfig(ctx context.Context, actor Actor, input *GlobalConfigInput) (*entity.GlobalConfiguration, error) {
	var fieldErrors []apperror.FieldError
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if !currencyCodePattern.MatchString(currency) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "currency", Message: "must be an ISO 4217 code such as EUR"})
	}
	if err := validateCurrencyPosition(input.CurrencyPosition); err != nil {
		fieldErrors = append(fieldErrors, *err)
	}
	switch input.Theme {
	case "light", "dark", "system":
	default:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "theme", Message: "must be light, dark or system"})
	}
	if !languagePattern.MatchString(input.Language) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "language", Message: "must be a language code such as en or es-ES"})
	}
	if _, err := time.LoadLocation(input.Timezone); err != nil || input.Timezone == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "timezone", Message: "must be an IANA timezone"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	cfg.Currency = currency
	cfg.CurrencyPosition = input.CurrencyPosition
	cfg.Theme = input.Theme
	cfg.Language = input.Language
	cfg.Timezone = input.Timezone
	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.log.Info("global configuration replaced", zap.String("by", actor.StaffID.String()))
	publish(ctx, s.bus, s.log, events.TopicConfigChanged, events.KindGlobalConfigUpdated, uuid.Nil, cfg, s.clock.Now())
	return cfg, nil
}
