package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tacops/movetrack/backend/internal/fingerprint"
	"github.com/tacops/movetrack/backend/internal/logger"
	"github.com/tacops/movetrack/backend/internal/metrics"
	"github.com/tacops/movetrack/backend/internal/models"
)

var (
	ErrMovementNotFound = errors.New("movement not found")
	ErrSoldierNotFound  = errors.New("soldier not found")
	ErrSoldierInactive  = errors.New("soldier is not active")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrNegativeAmount   = errors.New("ta amount must not be negative")
	ErrInvalidStatus    = errors.New("invalid movement status")
)

// DuplicateMovementError signals that a submission collided with an existing
// record. ExistingID lets the caller redirect the user to the winner instead
// of silently failing.
type DuplicateMovementError struct {
	ExistingID uint
}

func (e *DuplicateMovementError) Error() string {
	return fmt.Sprintf("duplicate movement detected (existing id %d)", e.ExistingID)
}

// MovementInput carries the fields of a new movement submission.
type MovementInput struct {
	SoldierID     uint
	StartTime     time.Time
	EndTime       time.Time
	FromLocation  string
	ToLocation    string
	MovementType  string
	TransportMode string
	TAAmount      decimal.Decimal
	Notes         string
}

// MovementFilter narrows movement listings. Zero values mean "no filter";
// the date bounds are inclusive on start_time.
type MovementFilter struct {
	SoldierID uint
	Status    models.MovementStatus
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
}

// AuditEntry is a movement audit row joined with the acting user's name.
type AuditEntry struct {
	models.MovementAudit
	ActorName string `json:"actor_name"`
}

// DashboardStats are derived on every request, never stored.
type DashboardStats struct {
	TodayCount   int             `json:"today_count"`
	PendingCount int             `json:"pending_count"`
	ActiveCount  int             `json:"active_count"`
	MonthSpend   decimal.Decimal `json:"month_spend"`
	TotalSpend   decimal.Decimal `json:"total_spend"`
}

// SearchResult groups global search hits; each list is capped independently.
type SearchResult struct {
	Soldiers  []models.Soldier  `json:"soldiers"`
	Movements []models.Movement `json:"movements"`
}

type MovementService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewMovementService(db *gorm.DB, notifications *NotificationService) *MovementService {
	return &MovementService{db: db, notifications: notifications}
}

// Fingerprint computes the dedup key for a submission. The soldier's numeric
// id is the identity component.
func (s *MovementService) Fingerprint(soldierID uint, start time.Time, from, to string) string {
	return fingerprint.ComputeAt(strconv.FormatUint(uint64(soldierID), 10), start, from, to)
}

// CheckDuplicate is the advisory pre-check: it reports an existing movement
// with the same fingerprint so the UI can warn before submission. It is
// inherently racy and must never be treated as the correctness guarantee;
// the unique index enforced in Create is.
func (s *MovementService) CheckDuplicate(soldierID uint, start time.Time, from, to string) (*models.Movement, error) {
	fp := s.Fingerprint(soldierID, start, from, to)

	var movement models.Movement
	err := s.db.Preload("Soldier").Where("movement_fingerprint = ?", fp).First(&movement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &movement, nil
}

// Create is the admission pipeline. It validates the submission, computes
// the fingerprint and inserts the row together with its creation audit
// entry. The unique index on movement_fingerprint is the authoritative
// race-safe guard: when two writers collide, exactly one insert succeeds and
// the loser gets a DuplicateMovementError carrying the winner's id.
func (s *MovementService) Create(actorID uint, in MovementInput) (*models.Movement, error) {
	if !in.EndTime.After(in.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	if in.TAAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	var soldier models.Soldier
	if err := s.db.First(&soldier, in.SoldierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSoldierNotFound
		}
		return nil, err
	}
	if !soldier.Active {
		return nil, ErrSoldierInactive
	}

	movement := models.Movement{
		SoldierID:     in.SoldierID,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		FromLocation:  strings.TrimSpace(in.FromLocation),
		ToLocation:    strings.TrimSpace(in.ToLocation),
		MovementType:  in.MovementType,
		TransportMode: in.TransportMode,
		TAAmount:      in.TAAmount,
		Fingerprint:   s.Fingerprint(in.SoldierID, in.StartTime, in.FromLocation, in.ToLocation),
		Status:        models.MovementStatusPending,
		Notes:         in.Notes,
		CreatedBy:     actorID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}
		return tx.Create(&models.MovementAudit{
			MovementID: movement.ID,
			ActorID:    actorID,
			Action:     models.AuditActionMovementCreated,
			NewStatus:  movement.Status,
		}).Error
	})

	if err != nil {
		if isUniqueViolation(err) {
			metrics.IncMovementDuplicate()
			// Re-query the winner so the caller can surface its id.
			var existing models.Movement
			if qerr := s.db.Select("id").Where("movement_fingerprint = ?", movement.Fingerprint).First(&existing).Error; qerr == nil {
				return nil, &DuplicateMovementError{ExistingID: existing.ID}
			}
			return nil, &DuplicateMovementError{}
		}
		return nil, err
	}

	metrics.IncMovementCreated()
	s.notifications.MovementCreated(&movement, &soldier)

	return &movement, nil
}

// isUniqueViolation matches a fingerprint uniqueness failure regardless of
// whether the GORM error translator was enabled on this connection.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID fetches a movement with its soldier preloaded.
func (s *MovementService) GetByID(id uint) (*models.Movement, error) {
	var movement models.Movement
	if err := s.db.Preload("Soldier").First(&movement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// List returns movements newest-first, optionally filtered.
func (s *MovementService) List(f MovementFilter) ([]models.Movement, error) {
	query := s.db.Preload("Soldier").Order("created_at DESC")

	if f.SoldierID != 0 {
		query = query.Where("soldier_id = ?", f.SoldierID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		query = query.Where("movement_type = ?", f.Type)
	}
	if f.StartDate != nil {
		query = query.Where("start_time >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("start_time <= ?", *f.EndDate)
	}

	var movements []models.Movement
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// UpdateStatus transitions a movement to the target status and replaces its
// notes, leaving every other field untouched. Any status may be set from any
// other; the review workflow only implies pending as the working state. The
// transition and its audit entry commit in one transaction.
func (s *MovementService) UpdateStatus(actorID, movementID uint, status models.MovementStatus, notes string) (*models.Movement, error) {
	if !models.IsValidMovementStatus(status) {
		return nil, ErrInvalidStatus
	}

	var movement models.Movement
	if err := s.db.First(&movement, movementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, err
	}

	oldStatus := movement.Status

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&movement).Updates(map[string]interface{}{
			"status": status,
			"notes":  notes,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.MovementAudit{
			MovementID: movement.ID,
			ActorID:    actorID,
			Action:     models.AuditActionStatusChanged,
			OldStatus:  oldStatus,
			NewStatus:  status,
			Notes:      notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.IncStatusTransition(string(status))
	s.notifications.MovementReviewed(&movement, oldStatus, status)

	updated, err := s.GetByID(movement.ID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetAttachment records the uploaded attachment reference. The upload
// happens after the insert and is not transactional with it: a failed upload
// leaves the movement without an attachment, never rolled back.
func (s *MovementService) SetAttachment(movementID uint, url string) error {
	result := s.db.Model(&models.Movement{}).Where("id = ?", movementID).Update("attachment_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMovementNotFound
	}
	return nil
}

// AuditLog returns the full ordered history of a movement, oldest first,
// each entry joined with the acting user's display name.
func (s *MovementService) AuditLog(movementID uint) ([]AuditEntry, error) {
	var entries []AuditEntry
	err := s.db.Table("movement_audits").
		Select("movement_audits.*, users.full_name AS actor_name").
		Joins("LEFT JOIN users ON users.id = movement_audits.actor_id").
		Where("movement_audits.movement_id = ?", movementID).
		Order("movement_audits.created_at ASC, movement_audits.id ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Stats derives the dashboard counters from the movement table. Amounts are
// summed in the application with decimals, mirroring how the reporting UI
// always computed them.
func (s *MovementService) Stats() (*DashboardStats, error) {
	var movements []models.Movement
	if err := s.db.Select("status", "ta_amount", "start_time").Find(&movements).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := DashboardStats{
		MonthSpend: decimal.Zero,
		TotalSpend: decimal.Zero,
	}
	for _, m := range movements {
		if !m.StartTime.Before(startOfToday) {
			stats.TodayCount++
		}
		if m.Status == models.MovementStatusPending {
			stats.PendingCount++
		}
		if m.Status == models.MovementStatusApproved {
			stats.ActiveCount++
		}
		if !m.StartTime.Before(startOfMonth) {
			stats.MonthSpend = stats.MonthSpend.Add(m.TAAmount)
		}
		stats.TotalSpend = stats.TotalSpend.Add(m.TAAmount)
	}

	return &stats, nil
}

const searchResultCap = 5

// Search runs the global free-text lookup: soldiers by name or service
// number, movements by origin or destination, both case-insensitive
// substring matches capped independently. Queries under two characters
// return empty results.
func (s *MovementService) Search(query string) (*SearchResult, error) {
	result := &SearchResult{
		Soldiers:  []models.Soldier{},
		Movements: []models.Movement{},
	}

	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return result, nil
	}

	pattern := "%" + strings.ToLower(query) + "%"

	if err := s.db.
		Where("LOWER(full_name) LIKE ? OR LOWER(service_number) LIKE ?", pattern, pattern).
		Limit(searchResultCap).
		Find(&result.Soldiers).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Soldier").
		Where("LOWER(from_location) LIKE ? OR LOWER(to_location) LIKE ?", pattern, pattern).
		Limit(searchResultCap).
		Find(&result.Movements).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// ExportCSV serializes the filtered movement log. Fields are comma-joined
// without escaping, a known limitation of the export format.
func (s *MovementService) ExportCSV(f MovementFilter) (string, error) {
	movements, err := s.List(f)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(movements)+1)
	lines = append(lines, "id,personnel,start_time,end_time,from,to,type,status,amount")
	for _, m := range movements {
		lines = append(lines, strings.Join([]string{
			strconv.FormatUint(uint64(m.ID), 10),
			m.Soldier.FullName,
			m.StartTime.Format(time.RFC3339),
			m.EndTime.Format(time.RFC3339),
			m.FromLocation,
			m.ToLocation,
			m.MovementType,
			string(m.Status),
			m.TAAmount.String(),
		}, ","))
	}

	logger.WithFields(map[string]interface{}{"rows": len(movements)}).Debug("exported movement log")

	return strings.Join(lines, "\n"), nil
}
