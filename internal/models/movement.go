package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementStatus is the review state of a movement record.
type MovementStatus string

const (
	MovementStatusDraft    MovementStatus = "draft"
	MovementStatusPending  MovementStatus = "pending"
	MovementStatusApproved MovementStatus = "approved"
	MovementStatusRejected MovementStatus = "rejected"
)

// IsValidMovementStatus reports whether s is a known review state.
func IsValidMovementStatus(s MovementStatus) bool {
	switch s {
	case MovementStatusDraft, MovementStatusPending, MovementStatusApproved, MovementStatusRejected:
		return true
	}
	return false
}

// Movement is a single authorized trip for one soldier. The fingerprint
// column carries a unique index: it is the authoritative guard against
// duplicate submissions, racing writers included. Rows are immutable after
// creation except for status, notes and the attachment reference.
type Movement struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UUID          string          `json:"uuid" gorm:"uniqueIndex"`
	SoldierID     uint            `json:"soldier_id" gorm:"index"`
	Soldier       Soldier         `json:"soldier,omitempty"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	FromLocation  string          `json:"from_location"`
	ToLocation    string          `json:"to_location"`
	MovementType  string          `json:"movement_type"`
	TransportMode string          `json:"transport_mode"`
	TAAmount      decimal.Decimal `json:"ta_amount" gorm:"type:decimal(12,2)"`
	Fingerprint   string          `json:"movement_fingerprint" gorm:"column:movement_fingerprint;uniqueIndex"`
	Status        MovementStatus  `json:"status" gorm:"default:'pending';index"`
	AttachmentURL string          `json:"attachment_url,omitempty"`
	Notes         string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedBy     uint            `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Movement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.UUID == "" {
		m.UUID = uuid.New().String()
	}
	return
}
