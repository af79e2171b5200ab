package main

import (
	"time"

	"tasktrack/backend/internal/config"
	"tasktrack/backend/internal/handlers"
	"tasktrack/backend/internal/middleware"
	"tasktrack/backend/internal/monitoring"
	"tasktrack/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func newRouter(cfg *config.Config, db *gorm.DB, logger *logrus.Logger, taskService services.TaskService, userService services.UserService, monitor *monitoring.Monitor) *gin.Engine {
	tokens := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	cookies := handlers.CookieSettingsFromConfig(cfg)

	authHandler := handlers.NewAuthHandler(db, services.NewAuthService(), tokens, cookies)
	registerHandler := handlers.NewRegisterHandler(db, services.NewRegisterService(cfg.Auth.BCryptCost), tokens, cookies)
	taskHandler := handlers.NewTaskHandler(db, taskService)
	userHandler := handlers.NewUserHandler(db, userService)

	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryWithLog(logger))
	router.Use(monitor.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	}

	router.GET("/healthz", monitor.HealthHandler())
	router.GET("/metrics", monitor.MetricsHandler())

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", registerHandler.Signup)
		auth.POST("/signin", authHandler.Signin)
		auth.POST("/logout", authHandler.Logout)
	}

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg.Auth.CookieName, tokens))
	{
		tasks := protected.Group("/task")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.GetTasks)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		users := protected.Group("/users")
		{
			users.GET("/me", userHandler.GetProfile)
			users.PUT("/me", userHandler.UpdateProfile)
			users.DELETE("/me", userHandler.DeleteProfile)
		}
	}

	return router
}
