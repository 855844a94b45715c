package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/tacops/movetrack/backend/internal/logger"
	"github.com/tacops/movetrack/backend/internal/models"
)

// Event types routed to external providers.
const (
	EventMovement = "movement"
	EventReview   = "review"
	EventUser     = "user"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Internal Notifications (DB)

func (s *NotificationService) Create(nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
		Read:    false,
	}
	result := s.DB.Create(notification)
	return notification, result.Error
}

func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(id string) error {
	return s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (s *NotificationService) MarkAllAsRead() error {
	return s.DB.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// Providers

func (s *NotificationService) ListProviders() ([]models.NotificationProvider, error) {
	var providers []models.NotificationProvider
	result := s.DB.Order("created_at asc").Find(&providers)
	return providers, result.Error
}

func (s *NotificationService) CreateProvider(provider *models.NotificationProvider) error {
	return s.DB.Create(provider).Error
}

func (s *NotificationService) UpdateProvider(provider *models.NotificationProvider) error {
	return s.DB.Save(provider).Error
}

func (s *NotificationService) DeleteProvider(id string) error {
	return s.DB.Delete(&models.NotificationProvider{}, "id = ?", id).Error
}

// TestProvider sends a test message synchronously so configuration errors
// surface to the caller.
func (s *NotificationService) TestProvider(provider models.NotificationProvider) error {
	return shoutrrr.Send(provider.URL, "MoveTrack test notification\nIf you can read this, the provider works.")
}

// External Notifications (shoutrrr)

// SendExternal pushes a message to every enabled provider subscribed to the
// event type. Delivery is best-effort and asynchronous; failures are logged,
// never surfaced to the triggering request.
func (s *NotificationService) SendExternal(eventType, title, message string) {
	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Error("failed to fetch notification providers")
		return
	}

	for _, provider := range providers {
		shouldSend := false
		switch eventType {
		case EventMovement:
			shouldSend = provider.NotifyMovements
		case EventReview:
			shouldSend = provider.NotifyReviews
		case EventUser:
			shouldSend = provider.NotifyUsers
		default:
			shouldSend = true
		}

		if !shouldSend {
			continue
		}

		go func(p models.NotificationProvider) {
			if err := shoutrrr.Send(p.URL, title+"\n"+message); err != nil {
				logger.WithFields(map[string]interface{}{"provider": p.Name}).
					WithError(err).Warn("external notification failed")
			}
		}(provider)
	}
}

// MovementCreated records and broadcasts a new movement submission.
// Nil-receiver safe so services can run without notifications in tests.
func (s *NotificationService) MovementCreated(m *models.Movement, soldier *models.Soldier) {
	if s == nil {
		return
	}

	title := "New movement recorded"
	message := fmt.Sprintf("%s (%s): %s -> %s on %s",
		soldier.FullName, soldier.ServiceNumber,
		m.FromLocation, m.ToLocation, m.StartTime.Format("2006-01-02"))

	if _, err := s.Create(models.NotificationTypeInfo, title, message); err != nil {
		logger.Log().WithError(err).Error("failed to record movement notification")
	}
	s.SendExternal(EventMovement, title, message)
}

// MovementReviewed records and broadcasts a status transition.
func (s *NotificationService) MovementReviewed(m *models.Movement, oldStatus, newStatus models.MovementStatus) {
	if s == nil {
		return
	}

	nType := models.NotificationTypeInfo
	switch newStatus {
	case models.MovementStatusApproved:
		nType = models.NotificationTypeSuccess
	case models.MovementStatusRejected:
		nType = models.NotificationTypeWarning
	}

	title := fmt.Sprintf("Movement #%d %s", m.ID, newStatus)
	message := fmt.Sprintf("%s -> %s (was %s)", m.FromLocation, m.ToLocation, oldStatus)

	if _, err := s.Create(nType, title, message); err != nil {
		logger.Log().WithError(err).Error("failed to record review notification")
	}
	s.SendExternal(EventReview, title, message)
}

// UserManaged broadcasts a user-management action to subscribed providers.
func (s *NotificationService) UserManaged(action, email, role string) {
	if s == nil {
		return
	}
	s.SendExternal(EventUser, "User "+action, fmt.Sprintf("%s (%s)", email, role))
}
