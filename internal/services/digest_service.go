package services

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/tacops/movetrack/backend/internal/logger"
	"github.com/tacops/movetrack/backend/internal/models"
)

// DigestService sends a daily reminder of movements still waiting for
// review.
type DigestService struct {
	db            *gorm.DB
	notifications *NotificationService
	cron          *cron.Cron
}

func NewDigestService(db *gorm.DB, notifications *NotificationService) *DigestService {
	return &DigestService{db: db, notifications: notifications}
}

// Start schedules the digest at 08:00 server time every day.
func (s *DigestService) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc("0 8 * * *", s.Run); err != nil {
		return fmt.Errorf("schedule review digest: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler. Safe to call when Start was never invoked.
func (s *DigestService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Run counts pending movements and notifies review subscribers. Exposed so
// it can be triggered manually and tested without the scheduler.
func (s *DigestService) Run() {
	var pending int64
	if err := s.db.Model(&models.Movement{}).
		Where("status = ?", models.MovementStatusPending).
		Count(&pending).Error; err != nil {
		logger.Log().WithError(err).Error("review digest query failed")
		return
	}

	if pending == 0 {
		return
	}

	s.notifications.SendExternal(EventReview,
		"Review digest",
		fmt.Sprintf("%d movement(s) awaiting review", pending))
}
