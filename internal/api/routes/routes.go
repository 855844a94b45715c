package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/tacops/movetrack/backend/internal/api/handlers"
	"github.com/tacops/movetrack/backend/internal/api/middleware"
	"github.com/tacops/movetrack/backend/internal/config"
	"github.com/tacops/movetrack/backend/internal/logger"
	"github.com/tacops/movetrack/backend/internal/metrics"
	"github.com/tacops/movetrack/backend/internal/models"
	"github.com/tacops/movetrack/backend/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserAudit{},
		&models.Soldier{},
		&models.Movement{},
		&models.MovementAudit{},
		&models.Setting{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	metrics.Register()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	authService := services.NewAuthService(db, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	authMiddleware := middleware.AuthMiddleware(authService)

	notificationService := services.NewNotificationService(db)
	movementService := services.NewMovementService(db, notificationService)
	soldierService := services.NewSoldierService(db)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	protected := api.Group("/")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		movementHandler := handlers.NewMovementHandler(movementService, cfg.UploadDir)
		movementHandler.RegisterRoutes(protected)

		soldierHandler := handlers.NewSoldierHandler(soldierService)
		soldierHandler.RegisterRoutes(protected)

		dashboardHandler := handlers.NewDashboardHandler(movementService)
		protected.GET("/dashboard/stats", dashboardHandler.Stats)

		searchHandler := handlers.NewSearchHandler(movementService)
		protected.GET("/search", searchHandler.Search)

		userHandler := handlers.NewUserHandler(db, notificationService)
		userHandler.RegisterRoutes(protected)

		settingsHandler := handlers.NewSettingsHandler(db)
		settingsHandler.RegisterRoutes(protected)

		notificationHandler := handlers.NewNotificationHandler(notificationService)
		notificationHandler.RegisterRoutes(protected)
	}

	// Uploaded movement attachments
	if cfg.UploadDir != "" {
		router.Static("/uploads", cfg.UploadDir)
	}

	// Daily pending-review digest
	digest := services.NewDigestService(db, notificationService)
	if err := digest.Start(); err != nil {
		logger.Log().WithError(err).Warn("digest scheduler not started")
	}

	return nil
}
