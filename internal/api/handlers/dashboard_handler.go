package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tacops/movetrack/backend/internal/services"
)

type DashboardHandler struct {
	service *services.MovementService
}

func NewDashboardHandler(service *services.MovementService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats returns the derived dashboard counters.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
