package routes

import (
	"fmt"

	"taskflow-backend/internal/api/handlers"
	"taskflow-backend/internal/api/middleware"
	"taskflow-backend/internal/auth"
	"taskflow-backend/internal/config"
	"taskflow-backend/internal/metrics"
	"taskflow-backend/internal/repository"
	"taskflow-backend/internal/service"
	"taskflow-backend/internal/visibility"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.Metrics())

	metrics.Register(nil)

	validator := service.NewValidator()

	// Data access and visibility
	store := repository.NewStore(db)
	resolver := visibility.NewResolver(store.Users)

	// Services
	signupService := service.NewSignupService(store, validator)
	inviteService := service.NewInviteService(store, validator, cfg.InviteTTL())
	userService := service.NewUserService(store, resolver, validator)
	projectService := service.NewProjectService(store, resolver, validator)
	taskService := service.NewTaskService(store, resolver, service.NewInAppDispatcher(store), validator)
	notificationService := service.NewNotificationService(store)

	authService, err := auth.NewAuthService(auth.NewAuthConfig(cfg.JWTSecret, cfg.AccessTokenTTL()), store.Users)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	authHandler := auth.NewAuthHandler(authService)
	authMiddleware := auth.NewAuthMiddleware(authService, store.Users)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db, Version)
	accountHandler := handlers.NewAccountHandler(signupService, inviteService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")

	// Public account routes
	accounts := v1.Group("/accounts")
	{
		accounts.POST("/signup", accountHandler.Signup)
		accounts.POST("/invites/consume", accountHandler.ConsumeInvite)
		accounts.POST("/login", authHandler.Login)
		accounts.POST("/login/refresh", authHandler.Refresh)
		accounts.POST("/login/validate", authHandler.ValidateToken)
	}

	// Everything below requires a bearer token
	protected := v1.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/accounts/invites/generate", accountHandler.GenerateInvite)

		users := protected.Group("/accounts/users")
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/me", userHandler.Me)
			users.PATCH("/me", userHandler.UpdateMe)
			users.GET("/:id", userHandler.GetUser)
		}

		projects := protected.Group("/projects")
		{
			projects.GET("/members", projectHandler.ListMembers)
			projects.POST("/members", projectHandler.AddMember)
			projects.DELETE("/members/:id", projectHandler.RemoveMember)
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("/dashboard", taskHandler.Dashboard)
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
		}
	}

	return router, nil
}
