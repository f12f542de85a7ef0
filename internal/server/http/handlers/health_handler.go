package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports backing service connectivity.
type HealthHandler struct {
	checkers []HealthChecker
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers}
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(c *gin.Context) {
	for _, checker := range h.checkers {
		if err := checker.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
