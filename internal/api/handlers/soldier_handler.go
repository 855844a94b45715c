package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tacops/movetrack/backend/internal/api/middleware"
	"github.com/tacops/movetrack/backend/internal/models"
	"github.com/tacops/movetrack/backend/internal/services"
)

type SoldierHandler struct {
	service *services.SoldierService
}

func NewSoldierHandler(service *services.SoldierService) *SoldierHandler {
	return &SoldierHandler{service: service}
}

func (h *SoldierHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/soldiers", h.List)
	r.GET("/soldiers/:id", h.Get)

	admin := middleware.RequireRole(models.RoleAdmin)
	r.POST("/soldiers", admin, h.Create)
	r.PUT("/soldiers/:id", admin, h.Update)
	r.DELETE("/soldiers/:id", admin, h.Deactivate)
}

type SoldierRequest struct {
	ServiceNumber string `json:"service_number" binding:"required"`
	FullName      string `json:"full_name" binding:"required"`
	Rank          string `json:"rank"`
	Unit          string `json:"unit"`
	Active        *bool  `json:"is_active"`
}

// Create registers a new soldier (admin only).
func (h *SoldierHandler) Create(c *gin.Context) {
	var req SoldierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	soldier, err := h.service.Create(services.SoldierInput{
		ServiceNumber: req.ServiceNumber,
		FullName:      req.FullName,
		Rank:          req.Rank,
		Unit:          req.Unit,
	})
	if err != nil {
		if errors.Is(err, services.ErrSoldierExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create soldier"})
		return
	}

	c.JSON(http.StatusCreated, soldier)
}

// Update edits a soldier's identity fields (admin only).
func (h *SoldierHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid soldier ID"})
		return
	}

	var req SoldierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	soldier, err := h.service.Update(uint(id), services.SoldierInput{
		ServiceNumber: req.ServiceNumber,
		FullName:      req.FullName,
		Rank:          req.Rank,
		Unit:          req.Unit,
	}, active)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSoldierNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Soldier not found"})
		case errors.Is(err, services.ErrSoldierExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update soldier"})
		}
		return
	}

	c.JSON(http.StatusOK, soldier)
}

// Deactivate marks a soldier off-duty; records are never hard-deleted.
func (h *SoldierHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid soldier ID"})
		return
	}

	if err := h.service.Deactivate(uint(id)); err != nil {
		if errors.Is(err, services.ErrSoldierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Soldier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate soldier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Soldier deactivated"})
}

// Get returns a single soldier.
func (h *SoldierHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid soldier ID"})
		return
	}

	soldier, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrSoldierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Soldier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch soldier"})
		return
	}

	c.JSON(http.StatusOK, soldier)
}

// List returns soldiers, optionally active-only or filtered by query.
func (h *SoldierHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	soldiers, err := h.service.List(activeOnly, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch soldiers"})
		return
	}

	c.JSON(http.StatusOK, soldiers)
}
