package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_PasswordHashing(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("correct horse battery staple"))

	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "correct horse battery staple", u.PasswordHash)
	assert.True(t, u.CheckPassword("correct horse battery staple"))
	assert.False(t, u.CheckPassword("wrong password"))
}

func TestUser_CanWrite(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).CanWrite())
	assert.True(t, (&User{Role: RoleDataEntry}).CanWrite())
	assert.False(t, (&User{Role: RoleViewer}).CanWrite())
}

func TestIsValidRole(t *testing.T) {
	for _, r := range ValidRoles {
		assert.True(t, IsValidRole(r))
	}
	assert.False(t, IsValidRole("root"))
	assert.False(t, IsValidRole(""))
}

func TestIsValidMovementStatus(t *testing.T) {
	for _, s := range []MovementStatus{MovementStatusDraft, MovementStatusPending, MovementStatusApproved, MovementStatusRejected} {
		assert.True(t, IsValidMovementStatus(s))
	}
	assert.False(t, IsValidMovementStatus("archived"))
}
