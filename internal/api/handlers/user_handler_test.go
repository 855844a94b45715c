package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacops/movetrack/backend/internal/models"
)

func TestUserHandler_CreateWithGeneratedCredentials(t *testing.T) {
	router, db := setupRouter(t)
	adminToken := registerAndLogin(t, router, "admin@example.com")

	w := doJSON(t, router, "POST", "/api/v1/users", adminToken, gin.H{
		"email":     "clerk@example.com",
		"full_name": "Desk Clerk",
		"role":      "data_entry",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeJSON(t, w)

	creds, ok := body["credentials"].(map[string]interface{})
	require.True(t, ok, "generated credentials must be disclosed in the create response")
	password := creds["password"].(string)
	require.NotEmpty(t, password)

	// The disclosed password actually works
	w = doJSON(t, router, "POST", "/api/v1/auth/login", "", gin.H{
		"email":    "clerk@example.com",
		"password": password,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// And it is not retrievable afterwards
	w = doJSON(t, router, "GET", "/api/v1/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), password)

	// Creation was audited
	var audit models.UserAudit
	require.NoError(t, db.Where("action = ?", models.UserAuditActionCreated).First(&audit).Error)
	assert.Equal(t, "clerk@example.com", audit.Email)
	assert.Equal(t, "data_entry", audit.Role)
}

func TestUserHandler_CreateWithExplicitPassword(t *testing.T) {
	router, _ := setupRouter(t)
	adminToken := registerAndLogin(t, router, "admin@example.com")

	w := doJSON(t, router, "POST", "/api/v1/users", adminToken, gin.H{
		"email":     "viewer@example.com",
		"full_name": "Watch Officer",
		"role":      "viewer",
		"password":  "chosen-password-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeJSON(t, w)
	_, disclosed := body["credentials"]
	assert.False(t, disclosed, "explicit passwords are never echoed back")

	// Duplicate email
	w = doJSON(t, router, "POST", "/api/v1/users", adminToken, gin.H{
		"email":     "viewer@example.com",
		"full_name": "Impostor",
		"role":      "viewer",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown role is rejected by binding
	w = doJSON(t, router, "POST", "/api/v1/users", adminToken, gin.H{
		"email":     "other@example.com",
		"full_name": "Other",
		"role":      "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_AdminGate(t *testing.T) {
	router, _ := setupRouter(t)
	_ = registerAndLogin(t, router, "admin@example.com")
	viewerToken := registerAndLogin(t, router, "viewer@example.com")

	w := doJSON(t, router, "GET", "/api/v1/users", viewerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/users", viewerToken, gin.H{
		"email":     "sneaky@example.com",
		"full_name": "Sneaky",
		"role":      "admin",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Profile endpoints stay open to every role
	w = doJSON(t, router, "GET", "/api/v1/user/profile", viewerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "PUT", "/api/v1/user/profile", viewerToken, gin.H{
		"full_name":    "Updated Name",
		"rank":         "Captain",
		"organization": "HQ",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/user/profile", viewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decodeJSON(t, w)
	assert.Equal(t, "Updated Name", profile["full_name"])
	assert.Equal(t, "Captain", profile["rank"])
}

func TestUserHandler_UpdateRoleAndDisable(t *testing.T) {
	router, db := setupRouter(t)
	adminToken := registerAndLogin(t, router, "admin@example.com")
	_ = registerAndLogin(t, router, "member@example.com")

	// Role change is audited
	w := doJSON(t, router, "PUT", "/api/v1/users/2", adminToken, gin.H{"role": "data_entry"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var audit models.UserAudit
	require.NoError(t, db.Where("action = ?", models.UserAuditActionRoleChanged).First(&audit).Error)
	assert.Equal(t, uint(2), audit.TargetUserID)
	assert.Equal(t, "data_entry", audit.Role)

	// Invalid role
	w = doJSON(t, router, "PUT", "/api/v1/users/2", adminToken, gin.H{"role": "root"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Disable locks the account out
	disabled := false
	w = doJSON(t, router, "PUT", "/api/v1/users/2", adminToken, gin.H{"enabled": &disabled})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/auth/login", "", gin.H{
		"email":    "member@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Self-demotion and self-disable are blocked
	w = doJSON(t, router, "PUT", "/api/v1/users/1", adminToken, gin.H{"role": "viewer"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, router, "PUT", "/api/v1/users/1", adminToken, gin.H{"enabled": &disabled})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The account's audit history is readable
	w = doJSON(t, router, "GET", "/api/v1/users/2/audit", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []map[string]interface{}
	require.NoError(t, jsonUnmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
}
