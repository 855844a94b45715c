package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationProvider is an external delivery target (shoutrrr URL) for
// movement and user-management events.
type NotificationProvider struct {
	ID      string `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"` // shoutrrr service URL
	Enabled bool   `json:"enabled" gorm:"default:true"`

	// Event preferences
	NotifyMovements bool `json:"notify_movements" gorm:"default:true"`
	NotifyReviews   bool `json:"notify_reviews" gorm:"default:true"`
	NotifyUsers     bool `json:"notify_users" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *NotificationProvider) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
