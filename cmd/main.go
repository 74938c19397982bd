package main

import (
	"os"
	"os/signal"
	"syscall"

	configs "github.com/blogify-dev/blogify-api/config"
	"github.com/blogify-dev/blogify-api/internal/handler"
	"github.com/blogify-dev/blogify-api/internal/middleware"
	"github.com/blogify-dev/blogify-api/internal/repository"
	"github.com/blogify-dev/blogify-api/internal/router"
	"github.com/blogify-dev/blogify-api/internal/service"
	"github.com/blogify-dev/blogify-api/pkg/database"
	"github.com/blogify-dev/blogify-api/pkg/logger"
	"github.com/blogify-dev/blogify-api/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Seed data may already exist, so a failure is not fatal
	if err := database.Seed(db); err != nil {
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	} else {
		logger.GetLogger().Info("Database seeded successfully")
	}

	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)

	// Services
	userService := service.NewUserService(userRepo)
	otpService := service.NewOTPService(otpRepo, config.OTP)
	tokenService := service.NewTokenService(config.Token)
	authService := service.NewAuthService(userService, otpService, tokenService)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, config)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService, userService)

	r := router.NewRouter(
		authHandler,
		userHandler,
		healthHandler,
		authMiddleware,
		redisClient,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
