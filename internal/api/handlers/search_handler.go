package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tacops/movetrack/backend/internal/services"
)

type SearchHandler struct {
	service *services.MovementService
}

func NewSearchHandler(service *services.MovementService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search runs the global free-text lookup across personnel and movements.
func (h *SearchHandler) Search(c *gin.Context) {
	result, err := h.service.Search(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
