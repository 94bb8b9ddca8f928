package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController reports liveness and database reachability
type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// HealthCheck handles the health check endpoint
func (hc *HealthController) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	code, status, database := http.StatusOK, "ok", "ok"
	if sqlDB, err := hc.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		code, status, database = http.StatusServiceUnavailable, "degraded", "unreachable"
	}

	c.JSON(code, gin.H{
		"status":   status,
		"service":  "nexus-api",
		"version":  "1.0.0",
		"database": database,
	})
}
