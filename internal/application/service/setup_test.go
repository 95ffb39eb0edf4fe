package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/clock"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/internal/infrastructure/database"
	"github.com/sangkips/brewpos-api/internal/infrastructure/events"
	infraRepo "github.com/sangkips/brewpos-api/internal/infrastructure/repository"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"github.com/sangkips/brewpos-api/pkg/printer"
	"github.com/sangkips/brewpos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db      *gorm.DB
	ctx     context.Context
	store   *entity.Store
	admin   Actor
	cashier Actor
	clock   *clock.FakeClock
	bus     *events.MemoryBus
	printer *printer.MemoryPrinter

	auth       *AuthService
	staff      *StaffService
	catalog    *CatalogService
	carts      *CartService
	sales      *SaleService
	reports    *ReportService
	presence   *PresenceService
	posConfig  *POSConfigService
	global     *GlobalConfigService
	payroll    *PayrollService
	printing   *PrinterService
	storefront *StorefrontService
}

const (
	testAdminPassword = "admin-secret"
	testCashierPIN    = "2468"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewSQLiteDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := &entity.Store{Name: "Test Roastery", Slug: "test-roastery", Address: "1 Bean St", Active: true}
	require.NoError(t, db.Create(store).Error)

	global := entity.DefaultGlobalConfiguration()
	global.Timezone = "UTC"
	require.NoError(t, db.Create(&global).Error)

	adminHash, err := utils.HashPassword(testAdminPassword)
	require.NoError(t, err)
	admin := &entity.Staff{StoreID: store.ID, Name: "Alba Admin", Email: "admin@test.local", Role: enum.StaffRoleAdmin, PasswordHash: adminHash, Active: true}
	require.NoError(t, db.Omit(clause.Associations).Create(admin).Error)

	pinHash, err := utils.HashPassword(testCashierPIN)
	require.NoError(t, err)
	cashierPassword, err := utils.HashPassword("cashier-secret")
	require.NoError(t, err)
	cashier := &entity.Staff{StoreID: store.ID, Name: "Carl Cashier", Email: "carl@test.local", Role: enum.StaffRoleCashier, PasswordHash: cashierPassword, PINHash: pinHash, Active: true}
	require.NoError(t, db.Omit(clause.Associations).Create(cashier).Error)

	clk := clock.NewFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	bus := events.NewMemoryBus(nil)
	t.Cleanup(func() { bus.Close() })
	memPrinter := printer.NewNullPrinter()

	staffRepo := infraRepo.NewStaffRepository(db)
	storeRepo := infraRepo.NewStoreRepository(db)
	categoryRepo := infraRepo.NewCategoryRepository(db)
	itemRepo := infraRepo.NewCatalogItemRepository(db)
	saleRepo := infraRepo.NewSaleRepository(db)

	env := &testEnv{
		db:      db,
		ctx:     infraRepo.WithStore(context.Background(), store.ID),
		store:   store,
		admin:   Actor{StaffID: admin.ID, StoreID: store.ID, Name: admin.Name, Role: admin.Role},
		cashier: Actor{StaffID: cashier.ID, StoreID: store.ID, Name: cashier.Name, Role: cashier.Role},
		clock:   clk,
		bus:     bus,
		printer: memPrinter,
	}

	env.posConfig = NewPOSConfigService(infraRepo.NewPOSConfigRepository(db), bus, clk, nil)
	env.global = NewGlobalConfigService(infraRepo.NewGlobalConfigRepository(db), bus, clk, nil)
	env.auth = NewAuthService(staffRepo, storeRepo, utils.NewJWTManager("test-secret", time.Hour), clk, nil)
	env.staff = NewStaffService(staffRepo, nil)
	env.catalog = NewCatalogService(categoryRepo, itemRepo, bus, nil, clk, nil)
	env.carts = NewCartService(itemRepo, env.posConfig)
	env.sales = NewSaleService(saleRepo, env.carts, env.posConfig, nil, clk, nil)
	env.reports = NewReportService(saleRepo, env.global)
	env.presence = NewPresenceService(infraRepo.NewPresenceRepository(db), staffRepo, env.global, nil, clk, nil)
	env.payroll = NewPayrollService(infraRepo.NewStaffPaymentRepository(db), staffRepo, clk, nil)
	env.printing = NewPrinterService(memPrinter, printer.KindNone, 32, saleRepo, storeRepo, env.posConfig, nil)
	env.storefront = NewStorefrontService(storeRepo, categoryRepo, env.posConfig)
	return env
}

// seedItem creates an item in a category named after cat, creating the category on first use
func (e *testEnv) seedItem(t *testing.T, cat, name, price string) *entity.CatalogItem {
	t.Helper()
	category, err := infraRepo.NewCategoryRepository(e.db).GetByName(e.ctx, cat)
	require.NoError(t, err)
	if category == nil {
		category, err = e.catalog.CreateCategory(e.ctx, &CategoryInput{Name: cat})
		require.NoError(t, err)
	}
	item, err := e.catalog.CreateItem(e.ctx, &ItemInput{
		CategoryID: category.ID,
		Name:       name,
		Price:      dec(price),
	})
	require.NoError(t, err)
	return item
}

// setTaxes replaces the store's tax section
func (e *testEnv) setTaxes(t *testing.T, payload string) {
	t.Helper()
	_, err := e.posConfig.UpdateSection(e.ctx, e.admin, entity.SectionTaxes, []byte(payload))
	require.NoError(t, err)
}

func assertAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
