package router

import (
	"errors"

	"shoppos/internal/config"
	"shoppos/internal/handler"
	"shoppos/internal/infra"
	"shoppos/internal/middleware"
	"shoppos/internal/model"
	"shoppos/internal/repository"
	"shoppos/internal/service"
	"shoppos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators that survive a database reload.
type Deps struct {
	Config   *config.Config
	Redis    *redis.Client
	Mailer   *infra.Mailer
	Setup    service.SetupService
	Limiters middleware.Limiters
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(deps Deps, db *gorm.DB) (*gin.Engine, error) {
	cfg, rdb := deps.Config, deps.Redis
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if deps.Limiters.API == nil || deps.Limiters.Login == nil {
		return nil, errors.New("router: rate limiters are required")
	}
	apiLimiter, loginLimiter := deps.Limiters.API, deps.Limiters.Login

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.ErrorHandler())

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	userRepo := repository.NewUserRepository(db)
	resetRepo := repository.NewResetRepository(db)
	schemaRepo := repository.NewSchemaRepository(db)

	// Worker dispatcher, injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	permissionSvc := service.NewPermissionService(permissionRepo, rdb)
	authSvc := service.NewAuthService(userRepo, permissionSvc, cfg)
	productSvc := service.NewProductService(productRepo, cfg.LowStockThreshold)
	customerSvc := service.NewCustomerService(customerRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, customerRepo, dispatcher)
	refundSvc := service.NewRefundService(refundRepo, saleRepo, productRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	reportSvc := service.NewReportService(saleRepo, refundRepo, productRepo, customerRepo, cfg.LowStockThreshold)
	resetSvc := service.NewResetService(resetRepo)
	schemaSvc := service.NewSchemaService(schemaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	refundsH := handler.NewRefundsHandler(refundSvc)
	permissionsH := handler.NewPermissionsHandler(permissionSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	adminH := handler.NewAdminHandler(resetSvc, schemaSvc)
	setupH := handler.NewSetupHandler(deps.Setup)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, deps.Mailer))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth", loginLimiter)
	{
		auth.POST("/signup", authH.SignUp)
		auth.POST("/login", authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Each group is gated by the page that owns it.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	page := func(path string) gin.HandlerFunc { return middleware.RequirePage(permissionSvc, path) }

	v1 := r.Group("/v1", apiLimiter, jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		v1.GET("/reports/dashboard", page(model.PageDashboard), reportsH.Dashboard)
		v1.GET("/reports/profit", page(model.PageProfitAnalysis), reportsH.Profit)

		// Checkout belongs to the POS page; browsing and editing sales to /sales.
		v1.POST("/sales", page(model.PagePOS), salesH.Checkout)
		sales := v1.Group("/sales", page(model.PageSales))
		{
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
			sales.PATCH("/:id", salesH.Update)
		}

		products := v1.Group("/products", page(model.PageProducts))
		{
			products.GET("", productsH.List)
			products.POST("", productsH.Create)
			products.GET("/export.csv", productsH.ExportCSV)
			products.GET("/export.xlsx", productsH.ExportXLSX)
			products.POST("/import", productsH.ImportCSV)
			products.POST("/import.xlsx", productsH.ImportXLSX)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		customers := v1.Group("/credit-customers", page(model.PageCreditCustomers))
		{
			customers.GET("", customersH.List)
			customers.POST("", customersH.Create)
			customers.GET("/reconcile", customersH.Reconcile)
			customers.GET("/:id", customersH.Get)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Delete)
			customers.POST("/:id/payments", customersH.RecordPayment)
		}

		v1.POST("/refunds", page(model.PageRefund), refundsH.Create)
		v1.GET("/refunds", page(model.PageRefunds), refundsH.List)

		v1.GET("/settings", page(model.PageSettings), settingsH.Get)
		v1.PUT("/settings", page(model.PageSettings), settingsH.Update)

		// Users, permissions and data reset are admin-only regardless of
		// which roles may open the settings page.
		admin := v1.Group("", middleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/permissions", permissionsH.List)
			admin.PUT("/permissions", permissionsH.Update)
			admin.GET("/users", usersH.List)
			admin.PUT("/users/:id/role", usersH.UpdateRole)
			admin.POST("/admin/reset", adminH.Reset)
			admin.POST("/admin/reset/all", adminH.ResetAll)
		}

		v1.GET("/admin/schema", page(model.PageDatabaseSchema), adminH.Schema)

		setup := v1.Group("/setup/connection", page(model.PageSetup))
		{
			setup.GET("", setupH.Get)
			setup.PUT("", setupH.Apply)
			setup.DELETE("", setupH.Reset)
		}
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, nil
}
