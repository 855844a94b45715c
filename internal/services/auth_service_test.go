package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tacops/movetrack/backend/internal/config"
	"github.com/tacops/movetrack/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Soldier{},
		&models.Movement{},
		&models.MovementAudit{},
		&models.UserAudit{},
		&models.Notification{},
		&models.NotificationProvider{},
	))
	return db
}

func TestAuthService_Register(t *testing.T) {
	db := setupTestDB(t)
	cfg := config.Config{JWTSecret: "test-secret"}
	service := NewAuthService(db, cfg)

	// First user should be admin
	admin, err := service.Register("admin@example.com", "password123", "Admin User")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NotEmpty(t, admin.PasswordHash)
	assert.NotEqual(t, "password123", admin.PasswordHash)

	// Second user should be a viewer until promoted
	user, err := service.Register("user@example.com", "password123", "Regular User")
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, user.Role)

	// Duplicate email is rejected
	_, err = service.Register("ADMIN@example.com", "password123", "Sneaky")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	cfg := config.Config{JWTSecret: "test-secret"}
	service := NewAuthService(db, cfg)

	_, err := service.Register("test@example.com", "password123", "Test User")
	require.NoError(t, err)

	// Successful login
	token, err := service.Login("test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Invalid password
	token, err = service.Login("test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)

	// Account locking after repeated failures
	for i := 0; i < 4; i++ {
		_, err = service.Login("test@example.com", "wrongpassword")
		assert.Error(t, err)
	}

	var user models.User
	db.Where("email = ?", "test@example.com").First(&user)
	assert.Equal(t, 5, user.FailedLoginAttempts)
	require.NotNil(t, user.LockedUntil)
	assert.True(t, user.LockedUntil.After(time.Now()))

	// Correct password while locked still fails
	_, err = service.Login("test@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	cfg := config.Config{JWTSecret: "test-secret"}
	service := NewAuthService(db, cfg)

	admin, err := service.Register("admin@example.com", "password123", "Admin")
	require.NoError(t, err)

	token, err := service.Login("admin@example.com", "password123")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	// Token signed with another secret is rejected
	other := NewAuthService(db, config.Config{JWTSecret: "other-secret"})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	db := setupTestDB(t)
	cfg := config.Config{JWTSecret: "test-secret"}
	service := NewAuthService(db, cfg)

	user, err := service.Register("test@example.com", "oldpassword", "Test User")
	require.NoError(t, err)

	assert.ErrorIs(t, service.ChangePassword(user.ID, "wrong", "newpassword123"), ErrInvalidCredentials)
	require.NoError(t, service.ChangePassword(user.ID, "oldpassword", "newpassword123"))

	_, err = service.Login("test@example.com", "newpassword123")
	assert.NoError(t, err)
}

func TestAuthService_DisabledAccount(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	user, err := service.Register("test@example.com", "password123", "Test User")
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("enabled", false).Error)

	_, err = service.Login("test@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}
