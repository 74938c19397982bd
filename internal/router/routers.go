package router

import (
	"time"

	"github.com/blogify-dev/blogify-api/config"
	"github.com/blogify-dev/blogify-api/internal/handler"
	"github.com/blogify-dev/blogify-api/internal/middleware"
	redisclient "github.com/blogify-dev/blogify-api/pkg/redis"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler   *handler.AuthHandler
	userHandler   *handler.UserHandler
	healthHandler *handler.HealthHandler

	authMw *middleware.AuthMiddleware
	redis  *redisclient.Client
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	health *handler.HealthHandler,
	authMw *middleware.AuthMiddleware,
	redis *redisclient.Client,
	config *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		userHandler:   user,
		healthHandler: health,
		authMw:        authMw,
		redis:         redis,
		Config:        config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.Default()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.Health)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.redis, r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

			r.authRoutes(v1)
			r.userRoutes(v1)
		}
	}

	return router
}
