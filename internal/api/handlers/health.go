package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpmessner/uzu-parser/internal/config"
)

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"environment": h.cfg.Environment,
		"max_depth":   h.cfg.MaxDepth,
	})
}
