package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/brewpos-api/internal/clock"
	"github.com/sangkips/brewpos-api/internal/config"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/internal/presentation/http/handler"
	"github.com/sangkips/brewpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/brewpos-api/pkg/metrics"
	"github.com/sangkips/brewpos-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth       *handler.AuthHandler
	Catalog    *handler.CatalogHandler
	Cart       *handler.CartHandler
	Sale       *handler.SaleHandler
	Report     *handler.ReportHandler
	Presence   *handler.PresenceHandler
	Staff      *handler.StaffHandler
	Payroll    *handler.PayrollHandler
	Config     *handler.ConfigHandler
	Printer    *handler.PrinterHandler
	Storefront *handler.StorefrontHandler
	Events     *handler.EventsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.StoreRateLimiter
	Metrics         *metrics.Metrics
	Clock           clock.Clock
	Log             *zap.Logger
}

// NewRateLimiter builds the per-store limiter from configuration
func NewRateLimiter(cfg *config.RateLimitConfig) *middleware.StoreRateLimiter {
	duration := cfg.Duration
	if duration <= 0 {
		duration = 60
	}
	return middleware.NewStoreRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.Requests) / float64(duration),
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", h.Events.Serve)

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(deps.RateLimiter.Middleware())
		registerPublicRoutes(public, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.RateLimiter.Middleware())
		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerPublicRoutes(public *gin.RouterGroup, h *Handlers) {
	auth := public.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/pin", h.Auth.LoginWithPIN)
	}
	public.GET("/public/stores/:id/menu", h.Storefront.Menu)
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/profile", h.Auth.GetProfile)

	registerConfigRoutes(protected, h)
	registerCatalogRoutes(protected, h)
	registerSaleRoutes(protected, h, deps)
	registerReportRoutes(protected, h)
	registerPresenceRoutes(protected, h)
	registerStaffRoutes(protected, h)

	protected.GET("/printer/status", h.Printer.GetStatus)
}

func registerConfigRoutes(protected *gin.RouterGroup, h *Handlers) {
	manage := middleware.RequirePermission(enum.PermManageConfig)

	protected.GET("/config/global", h.Config.GetGlobal)
	protected.PUT("/config/global", manage, h.Config.ReplaceGlobal)
	protected.GET("/pos-config", h.Config.GetPOS)
	protected.PUT("/pos-config/:section", manage, h.Config.UpdatePOSSection)
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	manage := middleware.RequirePermission(enum.PermManageCatalog)

	categories := protected.Group("/categories")
	{
		categories.GET("", h.Catalog.ListCategories)
		categories.POST("", manage, h.Catalog.CreateCategory)
		categories.PUT("/:id", manage, h.Catalog.UpdateCategory)
		categories.DELETE("/:id", manage, h.Catalog.DeleteCategory)
	}

	items := protected.Group("/items")
	{
		items.GET("", h.Catalog.ListItems)
		items.POST("", manage, h.Catalog.CreateItem)
		items.GET("/:id", h.Catalog.GetItem)
		items.PUT("/:id", manage, h.Catalog.UpdateItem)
		items.DELETE("/:id", manage, h.Catalog.DeleteItem)
		items.POST("/:id/availability", manage, h.Catalog.SetAvailability)
		items.POST("/:id/visibility", manage, h.Catalog.SetVisibility)
	}

	menu := protected.Group("/menu")
	{
		menu.GET("", h.Catalog.POSMenu)
		menu.GET("/export", manage, h.Catalog.ExportMenu)
		menu.POST("/import", manage, h.Catalog.ImportMenu)
		menu.POST("/sync", manage, h.Catalog.SyncToPOS)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:  deps.IdempotencyRepo,
		Clock: deps.Clock,
		Log:   deps.Log,
	})

	cart := protected.Group("/cart")
	cart.Use(middleware.RequirePermission(enum.PermSell))
	{
		cart.GET("", h.Cart.Get)
		cart.POST("/items", h.Cart.AddItem)
		cart.DELETE("/items/:item_id", h.Cart.RemoveItem)
		cart.DELETE("", h.Cart.Clear)
	}

	sales := protected.Group("/sales")
	sales.Use(middleware.RequirePermission(enum.PermSell))
	{
		sales.POST("/checkout", idempotent, h.Sale.Checkout)
		sales.GET("", h.Sale.List)
		sales.GET("/export", middleware.RequirePermission(enum.PermViewReports), h.Sale.Export)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/refund", middleware.RequirePermission(enum.PermRefund), idempotent, h.Sale.Refund)
		sales.GET("/:id/ticket", h.Printer.Ticket)
		sales.POST("/:id/print", h.Printer.Print)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission(enum.PermViewReports))
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/daily", h.Report.Daily)
		reports.GET("/top-items", h.Report.TopItems)
		reports.GET("/staff", h.Report.ByStaff)
	}
}

func registerPresenceRoutes(protected *gin.RouterGroup, h *Handlers) {
	presence := protected.Group("/presence")
	presence.Use(middleware.RequirePermission(enum.PermTrackTime))
	{
		presence.POST("", h.Presence.Record)
		presence.GET("/me", h.Presence.Me)
		presence.GET("/summary", h.Presence.Summary)
		presence.GET("/entries", h.Presence.Entries)
		presence.GET("/board", h.Presence.Board)
	}
}

func registerStaffRoutes(protected *gin.RouterGroup, h *Handlers) {
	manage := middleware.RequirePermission(enum.PermManageStaff)

	staff := protected.Group("/staff")
	staff.Use(manage)
	{
		staff.GET("", h.Staff.List)
		staff.POST("", h.Staff.Create)
		staff.GET("/export", h.Staff.Export)
		staff.GET("/:id", h.Staff.Get)
		staff.PUT("/:id", h.Staff.Update)
		staff.POST("/:id/deactivate", h.Staff.Deactivate)
	}

	payments := protected.Group("/staff-payments")
	payments.Use(manage)
	{
		payments.GET("", h.Payroll.List)
		payments.POST("", h.Payroll.Record)
		payments.GET("/export", h.Payroll.Export)
	}
}
