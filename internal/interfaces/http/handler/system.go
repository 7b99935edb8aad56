package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SystemHandler answers liveness checks
type SystemHandler struct{}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Root godoc
// @Summary      Liveness text
// @Tags         system
// @Produce      plain
// @Success      200 {string} string "Invoice service is running"
// @Router       / [get]
func (h *SystemHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Invoice service is running")
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}
