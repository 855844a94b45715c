package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tacops/movetrack/backend/internal/api/middleware"
	"github.com/tacops/movetrack/backend/internal/models"
	"github.com/tacops/movetrack/backend/internal/services"
)

type MovementHandler struct {
	service   *services.MovementService
	uploadDir string
}

func NewMovementHandler(service *services.MovementService, uploadDir string) *MovementHandler {
	return &MovementHandler{service: service, uploadDir: uploadDir}
}

func (h *MovementHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/movements", h.List)
	r.GET("/movements/export", h.Export)
	r.GET("/movements/check-duplicate", middleware.RequireRole(models.RoleAdmin, models.RoleDataEntry), h.CheckDuplicate)
	r.POST("/movements", middleware.RequireRole(models.RoleAdmin, models.RoleDataEntry), h.Create)
	r.GET("/movements/:id", h.Get)
	r.GET("/movements/:id/audit", h.AuditLog)
	r.PUT("/movements/:id/status", middleware.RequireRole(models.RoleAdmin), h.UpdateStatus)
	r.POST("/movements/:id/attachment", middleware.RequireRole(models.RoleAdmin, models.RoleDataEntry), h.UploadAttachment)
}

// CreateMovementRequest is the submission payload. Status is never accepted
// from the client; every new movement starts pending.
type CreateMovementRequest struct {
	SoldierID     uint            `json:"soldier_id" binding:"required"`
	StartTime     time.Time       `json:"start_time" binding:"required"`
	EndTime       time.Time       `json:"end_time" binding:"required"`
	FromLocation  string          `json:"from_location" binding:"required,min=2"`
	ToLocation    string          `json:"to_location" binding:"required,min=2"`
	MovementType  string          `json:"movement_type" binding:"required"`
	TransportMode string          `json:"transport_mode" binding:"required"`
	TAAmount      decimal.Decimal `json:"ta_amount"`
	Notes         string          `json:"notes"`
}

// Create admits a new movement. A fingerprint collision answers 409 with the
// existing record's id so the client can redirect to it.
func (h *MovementHandler) Create(c *gin.Context) {
	actorID, _ := c.Get("userID")

	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movement, err := h.service.Create(actorID.(uint), services.MovementInput{
		SoldierID:     req.SoldierID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		FromLocation:  req.FromLocation,
		ToLocation:    req.ToLocation,
		MovementType:  req.MovementType,
		TransportMode: req.TransportMode,
		TAAmount:      req.TAAmount,
		Notes:         req.Notes,
	})
	if err != nil {
		var dup *services.DuplicateMovementError
		switch {
		case errors.As(err, &dup):
			c.JSON(http.StatusConflict, gin.H{
				"error":       "Duplicate movement detected",
				"existing_id": dup.ExistingID,
			})
		case errors.Is(err, services.ErrSoldierNotFound),
			errors.Is(err, services.ErrSoldierInactive),
			errors.Is(err, services.ErrInvalidTimeRange),
			errors.Is(err, services.ErrNegativeAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create movement"})
		}
		return
	}

	c.JSON(http.StatusCreated, movement)
}

// CheckDuplicate is the advisory pre-submission lookup. It never blocks a
// submission by itself; the unique constraint does.
func (h *MovementHandler) CheckDuplicate(c *gin.Context) {
	soldierID, err := strconv.ParseUint(c.Query("soldier_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid soldier_id"})
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		// Accept a bare calendar date too
		start, err = time.Parse("2006-01-02", c.Query("start_time"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_time"})
			return
		}
	}

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}

	match, err := h.service.CheckDuplicate(uint(soldierID), start, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check for duplicates"})
		return
	}

	if match == nil {
		c.JSON(http.StatusOK, gin.H{"duplicate": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"duplicate": true, "movement": match})
}

func parseMovementFilter(c *gin.Context) (services.MovementFilter, error) {
	var f services.MovementFilter

	if v := c.Query("soldier_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return f, fmt.Errorf("invalid soldier_id")
		}
		f.SoldierID = uint(id)
	}
	if v := c.Query("status"); v != "" {
		f.Status = models.MovementStatus(v)
	}
	f.Type = c.Query("type")

	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("invalid start_date")
		}
		f.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("invalid end_date")
		}
		// Inclusive upper bound on the whole day
		t = t.Add(24*time.Hour - time.Nanosecond)
		f.EndDate = &t
	}

	return f, nil
}

// List returns movements newest-first with optional filters.
func (h *MovementHandler) List(c *gin.Context) {
	filter, err := parseMovementFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movements, err := h.service.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movements"})
		return
	}

	c.JSON(http.StatusOK, movements)
}

// Get returns a single movement with its soldier.
func (h *MovementHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movement ID"})
		return
	}

	movement, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrMovementNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movement"})
		return
	}

	c.JSON(http.StatusOK, movement)
}

type UpdateStatusRequest struct {
	Status models.MovementStatus `json:"status" binding:"required"`
	Notes  string                `json:"notes"`
}

// UpdateStatus performs the review transition and returns the updated record.
func (h *MovementHandler) UpdateStatus(c *gin.Context) {
	actorID, _ := c.Get("userID")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movement ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movement, err := h.service.UpdateStatus(actorID.(uint), uint(id), req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMovementNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Movement not found"})
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		}
		return
	}

	c.JSON(http.StatusOK, movement)
}

// AuditLog returns the ordered action history of a movement.
func (h *MovementHandler) AuditLog(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movement ID"})
		return
	}

	entries, err := h.service.AuditLog(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit log"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// UploadAttachment stores a file for an existing movement and records its
// URL. The upload is deliberately not transactional with the insert: a
// failed upload leaves the movement intact, just without an attachment.
func (h *MovementHandler) UploadAttachment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movement ID"})
		return
	}

	if _, err := h.service.GetByID(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movement not found"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	// Never trust the client's filename for the stored path.
	name := uuid.New().String() + filepath.Ext(filepath.Base(file.Filename))
	dst := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store attachment"})
		return
	}

	url := "/uploads/" + name
	if err := h.service.SetAttachment(uint(id), url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attachment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attachment_url": url})
}

// Export streams the filtered movement log as CSV.
func (h *MovementHandler) Export(c *gin.Context) {
	filter, err := parseMovementFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	csv, err := h.service.ExportCSV(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export movements"})
		return
	}

	filename := "movements_export_" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
