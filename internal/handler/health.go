package handler

import (
	"net/http"
	"time"

	redisclient "github.com/blogify-dev/blogify-api/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redisclient.Client
}

func NewHealthHandler(db *gorm.DB, redis *redisclient.Client) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
	}
}

// Health reports liveness plus the state of the backing stores. The endpoint
// stays 200 as long as the process can answer; store failures are surfaced in
// the body for probes that care.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "error"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "error"
	}

	redisStatus := "disabled"
	if h.redis.IsEnabled() {
		redisStatus = "ok"
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "error"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "up",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbStatus,
		"redis":     redisStatus,
	})
}
