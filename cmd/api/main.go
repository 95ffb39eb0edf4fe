package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/clock"
	"github.com/sangkips/brewpos-api/internal/config"
	domainRepo "github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/internal/infrastructure/database"
	"github.com/sangkips/brewpos-api/internal/infrastructure/events"
	"github.com/sangkips/brewpos-api/internal/infrastructure/repository"
	"github.com/sangkips/brewpos-api/internal/logger"
	"github.com/sangkips/brewpos-api/internal/presentation/http/handler"
	"github.com/sangkips/brewpos-api/internal/presentation/http/routes"
	"github.com/sangkips/brewpos-api/internal/presentation/ws"
	"github.com/sangkips/brewpos-api/pkg/metrics"
	"github.com/sangkips/brewpos-api/pkg/printer"
	"github.com/sangkips/brewpos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const idempotencySweepInterval = 15 * time.Minute

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Prices travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.New(&cfg.Database, cfg.App.Debug)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	// Seed default data
	store, err := database.SeedDefaultData(db, &cfg.POS)
	if err != nil {
		zlog.Warn("failed to seed default data", zap.Error(err))
	} else {
		zlog.Info("default store ready", zap.String("store_id", store.ID.String()), zap.String("slug", store.Slug))
	}

	bus, closeBus, err := newBus(ctx, &cfg.Events, zlog)
	if err != nil {
		zlog.Fatal("failed to start event bus", zap.String("driver", cfg.Events.Driver), zap.Error(err))
	}
	defer closeBus()

	hub := ws.NewHub(bus, cfg.CORS.AllowedOrigins, zlog)
	go hub.Run(ctx)

	p, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		zlog.Warn("printer unavailable, tickets will not be printed", zap.String("type", cfg.Printer.Type), zap.Error(err))
		p = printer.NewNullPrinter()
		cfg.Printer.Type = printer.KindNone
	}

	m := metrics.Default()
	clk := clock.Real()
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	staffRepo := repository.NewStaffRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewCatalogItemRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	presenceRepo := repository.NewPresenceRepository(db)
	paymentRepo := repository.NewStaffPaymentRepository(db)
	posConfigRepo := repository.NewPOSConfigRepository(db)
	globalConfigRepo := repository.NewGlobalConfigRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	posConfigService := service.NewPOSConfigService(posConfigRepo, bus, clk, zlog)
	globalConfigService := service.NewGlobalConfigService(globalConfigRepo, bus, clk, zlog)
	authService := service.NewAuthService(staffRepo, storeRepo, jwtManager, clk, zlog)
	staffService := service.NewStaffService(staffRepo, zlog)
	catalogService := service.NewCatalogService(categoryRepo, itemRepo, bus, m, clk, zlog)
	cartService := service.NewCartService(itemRepo, posConfigService)
	saleService := service.NewSaleService(saleRepo, cartService, posConfigService, m, clk, zlog)
	reportService := service.NewReportService(saleRepo, globalConfigService)
	presenceService := service.NewPresenceService(presenceRepo, staffRepo, globalConfigService, m, clk, zlog)
	payrollService := service.NewPayrollService(paymentRepo, staffRepo, clk, zlog)
	printerService := service.NewPrinterService(p, cfg.Printer.Type, cfg.Printer.CharWidth, saleRepo, storeRepo, posConfigService, zlog)
	storefrontService := service.NewStorefrontService(storeRepo, categoryRepo, posConfigService)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Catalog:    handler.NewCatalogHandler(catalogService),
		Cart:       handler.NewCartHandler(cartService),
		Sale:       handler.NewSaleHandler(saleService, globalConfigService),
		Report:     handler.NewReportHandler(reportService, globalConfigService),
		Presence:   handler.NewPresenceHandler(presenceService),
		Staff:      handler.NewStaffHandler(staffService),
		Payroll:    handler.NewPayrollHandler(payrollService),
		Config:     handler.NewConfigHandler(posConfigService, globalConfigService),
		Printer:    handler.NewPrinterHandler(printerService),
		Storefront: handler.NewStorefrontHandler(storefrontService),
		Events:     handler.NewEventsHandler(hub, jwtManager, zlog),
	}

	rateLimiter := routes.NewRateLimiter(&cfg.RateLimit)
	defer rateLimiter.Close()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Metrics:         m,
		Clock:           clk,
		Log:             zlog,
	})

	go sweepIdempotencyKeys(ctx, idempotencyRepo, clk, zlog)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newBus picks the event transport. Redis lets several API instances share
// the same websocket stream.
func newBus(ctx context.Context, cfg *config.EventsConfig, log *zap.Logger) (events.Bus, func(), error) {
	if cfg.Driver != "redis" {
		bus := events.NewMemoryBus(log)
		return bus, func() { _ = bus.Close() }, nil
	}
	client := events.NewRedisClient(cfg)
	bus, err := events.NewRedisBus(ctx, client, log)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return bus, func() {
		_ = bus.Close()
		_ = client.Close()
	}, nil
}

func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, clk clock.Clock, log *zap.Logger) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx, clk.Now()); err != nil {
				log.Warn("idempotency sweep failed", zap.Error(err))
			}
		}
	}
}
