package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Soldier is an identity record for a tracked person. Soldiers are never
// hard-deleted; they are deactivated so historical movements keep their
// reference.
type Soldier struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	UUID          string `json:"uuid" gorm:"uniqueIndex"`
	ServiceNumber string `json:"service_number" gorm:"uniqueIndex"`
	FullName      string `json:"full_name"`
	Rank          string `json:"rank"`
	Unit          string `json:"unit"`
	Active        bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Soldier) BeforeCreate(tx *gorm.DB) (err error) {
	if s.UUID == "" {
		s.UUID = uuid.New().String()
	}
	return
}
