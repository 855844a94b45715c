package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tacops/movetrack/backend/internal/api/middleware"
	"github.com/tacops/movetrack/backend/internal/config"
	"github.com/tacops/movetrack/backend/internal/models"
	"github.com/tacops/movetrack/backend/internal/services"
)

// setupRouter wires the full protected API surface against a fresh in-memory
// database, mirroring the production route registration.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := OpenTestDB(t)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserAudit{},
		&models.Soldier{},
		&models.Movement{},
		&models.MovementAudit{},
		&models.Setting{},
		&models.Notification{},
		&models.NotificationProvider{},
	))

	cfg := config.Config{Environment: "test", JWTSecret: "test-secret"}

	authService := services.NewAuthService(db, cfg)
	authHandler := NewAuthHandler(authService)

	notificationService := services.NewNotificationService(db)
	movementService := services.NewMovementService(db, notificationService)
	soldierService := services.NewSoldierService(db)

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(authService))
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/change-password", authHandler.ChangePassword)

	NewMovementHandler(movementService, t.TempDir()).RegisterRoutes(protected)
	NewSoldierHandler(soldierService).RegisterRoutes(protected)
	NewUserHandler(db, notificationService).RegisterRoutes(protected)
	NewSettingsHandler(db).RegisterRoutes(protected)
	NewNotificationHandler(notificationService).RegisterRoutes(protected)
	protected.GET("/dashboard/stats", NewDashboardHandler(movementService).Stats)
	protected.GET("/search", NewSearchHandler(movementService).Search)

	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func jsonUnmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// loginAs fetches a fresh token for an already registered account.
func loginAs(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, router, "POST", "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, ok := decodeJSON(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

// registerAndLogin creates an account through the public endpoints and
// returns its bearer token. The first registered account becomes admin.
func registerAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(t, router, "POST", "/api/v1/auth/register", "", gin.H{
		"email":     email,
		"password":  "password123",
		"full_name": "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, "POST", "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := decodeJSON(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}
