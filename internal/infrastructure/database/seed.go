package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sangkips/brewpos-api/internal/config"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedItem struct {
	name        string
	description string
	price       int64
}

var sampleMenu = []struct {
	category string
	items    []seedItem
}{
	{"Coffee", []seedItem{
		{"Espresso", "Single shot", 250},
		{"Americano", "Espresso with hot water", 280},
		{"Cappuccino", "Espresso, steamed milk and foam", 320},
		{"Flat White", "Double ristretto with microfoam", 340},
	}},
	{"Tea", []seedItem{
		{"Green Tea", "Sencha", 260},
		{"Chai Latte", "Spiced black tea with milk", 360},
	}},
	{"Bakery", []seedItem{
		{"Croissant", "Butter croissant", 180},
		{"Banana Bread", "Slice, baked in house", 290},
	}},
}

// SeedDefaultData creates the default store, its admin, POS configuration,
// the global configuration and, if enabled, a sample menu. Existing rows are
// left untouched.
func SeedDefaultData(db *gorm.DB, cfg *config.POSConfig) (*entity.Store, error) {
	log := zap.L()
	log.Info("seeding default data")

	store, err := seedStore(db, cfg.DefaultStoreName)
	if err != nil {
		return nil, err
	}

	var global entity.GlobalConfiguration
	if err := db.Where("config_key = ?", entity.GlobalConfigurationKey).First(&global).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		global = entity.DefaultGlobalConfiguration()
		global.Timezone = cfg.Timezone
		if err := db.Create(&global).Error; err != nil {
			log.Warn("failed to create global configuration", zap.Error(err))
		}
	}

	var posCfg entity.POSConfiguration
	if err := db.Where("store_id = ?", store.ID).First(&posCfg).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		posCfg = entity.POSConfiguration{
			StoreID:  store.ID,
			Settings: datatypes.NewJSONType(entity.DefaultPOSSettings()),
		}
		if err := db.Create(&posCfg).Error; err != nil {
			log.Warn("failed to create POS configuration", zap.Error(err))
		}
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		seedAdmin(db, store, cfg)
	}

	if cfg.SeedMenu {
		if err := seedMenu(db, store); err != nil {
			log.Warn("failed to seed sample menu", zap.Error(err))
		}
	}

	log.Info("default data seeding completed", zap.String("store_id", store.ID.String()))
	return store, nil
}

func seedStore(db *gorm.DB, name string) (*entity.Store, error) {
	slug := utils.Slugify(name)
	var store entity.Store
	err := db.Where("slug = ?", slug).First(&store).Error
	if err == nil {
		return &store, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up default store: %w", err)
	}

	store = entity.Store{Name: name, Slug: slug, Active: true}
	if err := db.Create(&store).Error; err != nil {
		return nil, fmt.Errorf("failed to create default store: %w", err)
	}
	return &store, nil
}

func seedAdmin(db *gorm.DB, store *entity.Store, cfg *config.POSConfig) {
	log := zap.L()
	email := strings.ToLower(cfg.AdminEmail)

	var existing entity.Staff
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Info("admin staff already exists", zap.String("email", email))
		return
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Warn("failed to hash admin password", zap.Error(err))
		return
	}

	admin := entity.Staff{
		StoreID:      store.ID,
		Name:         cfg.AdminName,
		Email:        email,
		Role:         enum.StaffRoleAdmin,
		PasswordHash: hash,
		Active:       true,
	}
	if cfg.AdminPIN != "" {
		pinHash, err := utils.HashPassword(cfg.AdminPIN)
		if err != nil {
			log.Warn("failed to hash admin PIN", zap.Error(err))
		} else {
			admin.PINHash = pinHash
		}
	}

	if err := db.Omit(clause.Associations).Create(&admin).Error; err != nil {
		log.Warn("failed to create admin staff", zap.Error(err))
		return
	}
	log.Info("admin staff created", zap.String("email", email))
}

func seedMenu(db *gorm.DB, store *entity.Store) error {
	var count int64
	if err := db.Model(&entity.CatalogItem{}).Where("store_id = ?", store.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for pos, group := range sampleMenu {
			category := entity.Category{
				StoreID:  store.ID,
				Name:     group.category,
				Slug:     utils.Slugify(group.category),
				Position: pos,
			}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
			for _, it := range group.items {
				item := entity.CatalogItem{
					StoreID:     store.ID,
					CategoryID:  category.ID,
					Name:        it.name,
					Description: it.description,
					Price:       it.price,
					Available:   true,
					POSVisible:  true,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
