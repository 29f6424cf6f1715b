package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	serviceName    = "employee-service"
	serviceVersion = "1.0.0"
)

// Pinger is a dependency that can report its own reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves the liveness and readiness endpoints
type HealthHandler struct {
	db       *gorm.DB
	optional map[string]Pinger
}

// NewHealthHandler checks db on readiness. Optional dependencies are reported
// but never make the service unready, since both degrade gracefully.
func NewHealthHandler(db *gorm.DB, optional map[string]Pinger) *HealthHandler {
	return &HealthHandler{db: db, optional: optional}
}

// HealthCheck provides a health check endpoint
// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} gin.H
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"version":   serviceVersion,
		"timestamp": time.Now().UTC(),
	})
}

// ReadinessCheck provides a readiness check endpoint
// @Summary Readiness check
// @Description Check if the service is ready to handle requests
// @Tags health
// @Produce json
// @Success 200 {object} gin.H
// @Failure 503 {object} gin.H
// @Router /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			h.unready(c, "failed to get database connection")
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			h.unready(c, "database connection failed")
			return
		}
		checks["database"] = "connected"
	}

	for name, p := range h.optional {
		if p == nil {
			checks[name] = "disabled"
			continue
		}
		if err := p.Ping(ctx); err != nil {
			checks[name] = "unavailable"
		} else {
			checks[name] = "connected"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"service":   serviceName,
		"version":   serviceVersion,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	})
}

func (h *HealthHandler) unready(c *gin.Context, reason string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":    "unhealthy",
		"service":   serviceName,
		"version":   serviceVersion,
		"timestamp": time.Now().UTC(),
		"error":     reason,
	})
}
