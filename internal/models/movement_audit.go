package models

import (
	"time"
)

// Audit actions recorded against movements.
const (
	AuditActionMovementCreated = "movement_created"
	AuditActionStatusChanged   = "status_changed"
)

// MovementAudit is an append-only record of an action taken on a movement.
// Entries are never mutated or deleted.
type MovementAudit struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	MovementID uint           `json:"movement_id" gorm:"index"`
	ActorID    uint           `json:"actor_id"`
	Action     string         `json:"action"`
	OldStatus  MovementStatus `json:"old_status,omitempty"`
	NewStatus  MovementStatus `json:"new_status,omitempty"`
	Notes      string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at"`
}
