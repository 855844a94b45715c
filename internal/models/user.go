package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// RoleAdmin grants full access including user management and reviews.
	RoleAdmin = "admin"
	// RoleDataEntry may register soldiers' movements but not review them.
	RoleDataEntry = "data_entry"
	// RoleViewer has read-only access to the dashboard.
	RoleViewer = "viewer"
)

// ValidRoles lists assignable account roles.
var ValidRoles = []string{RoleAdmin, RoleDataEntry, RoleViewer}

// IsValidRole reports whether role is one of the assignable roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is an authenticated account with its role-bearing profile. The
// original system kept profiles one-to-one with an external auth identity;
// here both live in a single row.
type User struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	UUID                string     `json:"uuid" gorm:"uniqueIndex"`
	Email               string     `json:"email" gorm:"uniqueIndex"`
	PasswordHash        string     `json:"-"` // Never serialize password hash
	FullName            string     `json:"full_name"`
	Rank                string     `json:"rank"`
	Organization        string     `json:"organization"`
	Role                string     `json:"role" gorm:"default:'viewer'"` // "admin", "data_entry", "viewer"
	Enabled             bool       `json:"enabled" gorm:"default:true"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LockedUntil         *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
	CreatedBy           *uint      `json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the provided password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// CanWrite reports whether the user may create movement records.
func (u *User) CanWrite() bool {
	return u.Role == RoleAdmin || u.Role == RoleDataEntry
}
