package router

import (
	"time"

	"github.com/pweat/rejestr-prac/internal/config"
	"github.com/pweat/rejestr-prac/internal/handler"
	"github.com/pweat/rejestr-prac/internal/infra"
	"github.com/pweat/rejestr-prac/internal/middleware"
	"github.com/pweat/rejestr-prac/internal/model"
	"github.com/pweat/rejestr-prac/internal/repository"
	"github.com/pweat/rejestr-prac/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	readRoles   = []string{model.RoleViewer, model.RoleEditor, model.RoleAdmin}
	writeRoles  = []string{model.RoleEditor, model.RoleAdmin}
	deleteRoles = []string{model.RoleAdmin}
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB.
// rdb and mailer are optional.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.RateLimiter(rdb, cfg.APIRateLimit, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	jobRepo := repository.NewJobRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// A nil *Mailer must not become a non-nil OfferMailer.
	var offerMailer service.OfferMailer
	if mailer != nil {
		offerMailer = mailer
	}

	authSvc := service.NewAuthService(userRepo, cfg)
	clientSvc := service.NewClientService(clientRepo, jobRepo, cfg.PhoneRegion)
	jobSvc := service.NewJobService(jobRepo, clientRepo)
	inventorySvc := service.NewInventoryService(inventoryRepo)
	offerSvc := service.NewOfferService(offerRepo, clientRepo, cfg.Company(), offerMailer)
	reportSvc := service.NewReportService(reportRepo, clientRepo, offerRepo, inventoryRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	jobsH := handler.NewJobsHandler(jobSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	offersH := handler.NewOffersHandler(offerSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, mailer))

	r.POST("/register", authH.Register)
	r.POST("/login", middleware.LoginRateLimiter(rdb, cfg.LoginRateLimit), authH.Login)

	api := r.Group("", middleware.JWTAuth(cfg.JWTSecret))
	read := middleware.RequireRole(readRoles...)
	write := middleware.RequireRole(writeRoles...)
	admin := middleware.RequireRole(deleteRoles...)

	users := api.Group("/users", admin)
	{
		users.GET("", usersH.List)
		users.PUT("/:id/role", usersH.UpdateRole)
	}

	clients := api.Group("/clients")
	{
		clients.GET("", read, clientsH.List)
		clients.GET("/:id", read, clientsH.Get)
		clients.POST("", write, clientsH.Create)
		clients.PUT("/:id", write, clientsH.Update)
		clients.DELETE("/:id", admin, clientsH.Delete)
	}

	jobs := api.Group("/jobs")
	{
		jobs.GET("", read, jobsH.List)
		jobs.GET("/:id", read, jobsH.Get)
		jobs.POST("", write, jobsH.Create)
		jobs.PUT("/:id", write, jobsH.Update)
		jobs.DELETE("/:id", admin, jobsH.Delete)
	}

	inv := api.Group("/inventory")
	{
		inv.GET("", read, inventoryH.List)
		inv.GET("/alerts", read, inventoryH.Alerts)
		inv.GET("/:id", read, inventoryH.Get)
		inv.GET("/:id/history", read, inventoryH.History)
		inv.POST("", write, inventoryH.Create)
		inv.POST("/operation", write, inventoryH.Operation)
		inv.POST("/:id/toggle-order", write, inventoryH.ToggleOrder)
		inv.PUT("/:id", write, inventoryH.Update)
		inv.DELETE("/:id", admin, inventoryH.Delete)
	}

	offers := api.Group("/offers")
	{
		offers.GET("", read, offersH.List)
		offers.GET("/:id", read, offersH.Get)
		offers.GET("/:id/pdf", read, offersH.PDF)
		offers.POST("", write, offersH.Create)
		offers.POST("/:id/send", write, offersH.Send)
		offers.PUT("/:id", write, offersH.Update)
		offers.DELETE("/:id", admin, offersH.Delete)
	}

	reports := api.Group("/reports", read)
	{
		reports.GET("/monthly", reportsH.Monthly)
		reports.GET("/monthly/export", reportsH.MonthlyExport)
		reports.GET("/service-reminders", reportsH.ServiceReminders)
		reports.GET("/dashboard", reportsH.Dashboard)
	}

	return r
}
