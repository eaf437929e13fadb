package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger es lo que el health check necesita de la BD
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthController maneja GET /health
type HealthController struct {
	db Pinger
}

// NewHealthController crea el controlador; db puede ser nil
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health responde 200 si la BD responde, 503 si no
func (ctrl *HealthController) Health(c *gin.Context) {
	if ctrl.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := ctrl.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
