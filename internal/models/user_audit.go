package models

import (
	"time"
)

// Audit actions recorded against user accounts.
const (
	UserAuditActionCreated     = "user_created"
	UserAuditActionRoleChanged = "role_changed"
	UserAuditActionDisabled    = "user_disabled"
)

// UserAudit records admin actions taken on user accounts.
type UserAudit struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AdminID      uint      `json:"admin_id"`
	TargetUserID uint      `json:"target_user_id" gorm:"index"`
	Action       string    `json:"action"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
