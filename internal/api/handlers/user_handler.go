package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tacops/movetrack/backend/internal/api/middleware"
	"github.com/tacops/movetrack/backend/internal/models"
	"github.com/tacops/movetrack/backend/internal/services"
)

type UserHandler struct {
	DB            *gorm.DB
	Notifications *services.NotificationService
}

func NewUserHandler(db *gorm.DB, notifications *services.NotificationService) *UserHandler {
	return &UserHandler{DB: db, Notifications: notifications}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/user/profile", h.GetProfile)
	r.PUT("/user/profile", h.UpdateProfile)

	// User management (admin only)
	admin := middleware.RequireRole(models.RoleAdmin)
	r.GET("/users", admin, h.ListUsers)
	r.POST("/users", admin, h.CreateUser)
	r.GET("/users/:id", admin, h.GetUser)
	r.PUT("/users/:id", admin, h.UpdateUser)
	r.GET("/users/:id/audit", admin, h.UserAuditLog)
}

// GetProfile returns the current user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"full_name":    user.FullName,
		"rank":         user.Rank,
		"organization": user.Organization,
		"role":         user.Role,
	})
}

type UpdateProfileRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Rank         string `json:"rank"`
	Organization string `json:"organization"`
}

// UpdateProfile updates the authenticated user's display fields. Role and
// email changes go through the admin endpoints.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"full_name":    req.FullName,
		"rank":         req.Rank,
		"organization": req.Organization,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// ListUsers returns all accounts (admin only).
func (h *UserHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	result := make([]gin.H, len(users))
	for i, u := range users {
		result[i] = gin.H{
			"id":           u.ID,
			"uuid":         u.UUID,
			"email":        u.Email,
			"full_name":    u.FullName,
			"rank":         u.Rank,
			"organization": u.Organization,
			"role":         u.Role,
			"enabled":      u.Enabled,
			"last_login":   u.LastLogin,
			"created_at":   u.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, result)
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin data_entry viewer"`
	Password string `json:"password"`
}

// generateSecurePassword creates a random initial password.
func generateSecurePassword() (string, error) {
	bytes := make([]byte, 9)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateUser creates a new account (admin only). When no password is given
// one is generated; the credentials are returned in this response exactly
// once and are never retrievable again.
func (h *UserHandler) CreateUser(c *gin.Context) {
	adminID, _ := c.Get("userID")

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check email"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		return
	}

	password := req.Password
	generated := false
	if password == "" {
		var err error
		password, err = generateSecurePassword()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate password"})
			return
		}
		generated = true
	}

	adminIDUint := adminID.(uint)
	user := models.User{
		UUID:      uuid.New().String(),
		Email:     email,
		FullName:  req.FullName,
		Role:      req.Role,
		Enabled:   true,
		CreatedBy: &adminIDUint,
	}
	if err := user.SetPassword(password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserAudit{
			AdminID:      adminIDUint,
			TargetUserID: user.ID,
			Action:       models.UserAuditActionCreated,
			Email:        user.Email,
			Role:         user.Role,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user: " + err.Error()})
		return
	}

	h.Notifications.UserManaged("created", user.Email, user.Role)

	resp := gin.H{
		"id":        user.ID,
		"uuid":      user.UUID,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
	}
	if generated {
		// One-time disclosure of the generated credentials
		resp["credentials"] = gin.H{"email": user.Email, "password": password}
	}

	c.JSON(http.StatusCreated, resp)
}

// GetUser returns a single account (admin only).
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"uuid":         user.UUID,
		"email":        user.Email,
		"full_name":    user.FullName,
		"rank":         user.Rank,
		"organization": user.Organization,
		"role":         user.Role,
		"enabled":      user.Enabled,
		"last_login":   user.LastLogin,
		"created_at":   user.CreatedAt,
	})
}

// UpdateUserRequest represents the request body for updating a user.
type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Enabled  *bool  `json:"enabled"`
}

// UpdateUser updates an account's role, name or enabled flag (admin only).
// Role changes and disables are audited.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	adminID, _ := c.Get("userID")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role != "" && !models.IsValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	// An admin cannot lock themselves out
	if uint(id) == adminID.(uint) {
		if (req.Enabled != nil && !*req.Enabled) || (req.Role != "" && req.Role != models.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot demote or disable your own account"})
			return
		}
	}

	updates := make(map[string]interface{})
	var audits []models.UserAudit
	adminIDUint := adminID.(uint)

	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Role != "" && req.Role != user.Role {
		updates["role"] = req.Role
		audits = append(audits, models.UserAudit{
			AdminID:      adminIDUint,
			TargetUserID: user.ID,
			Action:       models.UserAuditActionRoleChanged,
			Email:        user.Email,
			Role:         req.Role,
		})
	}
	if req.Enabled != nil && *req.Enabled != user.Enabled {
		updates["enabled"] = *req.Enabled
		if !*req.Enabled {
			audits = append(audits, models.UserAudit{
				AdminID:      adminIDUint,
				TargetUserID: user.ID,
				Action:       models.UserAuditActionDisabled,
				Email:        user.Email,
				Role:         user.Role,
			})
		}
	}

	if len(updates) > 0 {
		err := h.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return err
			}
			for i := range audits {
				if err := tx.Create(&audits[i]).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

// UserAuditLog lists management actions taken on an account (admin only).
func (h *UserHandler) UserAuditLog(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var entries []models.UserAudit
	if err := h.DB.Where("target_user_id = ?", id).Order("created_at ASC").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit log"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
