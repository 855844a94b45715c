package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tacops/movetrack/backend/internal/models"
)

var (
	ErrSoldierExists = errors.New("service number already registered")
)

// SoldierInput carries the editable fields of a personnel record.
type SoldierInput struct {
	ServiceNumber string
	FullName      string
	Rank          string
	Unit          string
}

type SoldierService struct {
	db *gorm.DB
}

func NewSoldierService(db *gorm.DB) *SoldierService {
	return &SoldierService{db: db}
}

// Create registers a new soldier. Service numbers are unique across all
// records, active or not.
func (s *SoldierService) Create(in SoldierInput) (*models.Soldier, error) {
	soldier := models.Soldier{
		ServiceNumber: strings.TrimSpace(in.ServiceNumber),
		FullName:      strings.TrimSpace(in.FullName),
		Rank:          in.Rank,
		Unit:          in.Unit,
		Active:        true,
	}

	if err := s.db.Create(&soldier).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrSoldierExists
		}
		return nil, err
	}

	return &soldier, nil
}

// Update edits an existing soldier's identity fields.
func (s *SoldierService) Update(id uint, in SoldierInput, active bool) (*models.Soldier, error) {
	var soldier models.Soldier
	if err := s.db.First(&soldier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSoldierNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"full_name": strings.TrimSpace(in.FullName),
		"rank":      in.Rank,
		"unit":      in.Unit,
		"active":    active,
	}
	if sn := strings.TrimSpace(in.ServiceNumber); sn != "" && sn != soldier.ServiceNumber {
		var count int64
		if err := s.db.Model(&models.Soldier{}).Where("service_number = ? AND id != ?", sn, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSoldierExists
		}
		updates["service_number"] = sn
	}

	if err := s.db.Model(&soldier).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &soldier, nil
}

// Deactivate marks a soldier off-duty. Soldiers are never hard-deleted so
// movement history keeps its references.
func (s *SoldierService) Deactivate(id uint) error {
	result := s.db.Model(&models.Soldier{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSoldierNotFound
	}
	return nil
}

// GetByID fetches a soldier by primary key.
func (s *SoldierService) GetByID(id uint) (*models.Soldier, error) {
	var soldier models.Soldier
	if err := s.db.First(&soldier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSoldierNotFound
		}
		return nil, err
	}
	return &soldier, nil
}

// List returns soldiers, optionally restricted to active ones or matched
// against a case-insensitive name/service-number query.
func (s *SoldierService) List(activeOnly bool, query string) ([]models.Soldier, error) {
	q := s.db.Order("full_name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if query = strings.TrimSpace(query); query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(service_number) LIKE ?", pattern, pattern)
	}

	var soldiers []models.Soldier
	if err := q.Find(&soldiers).Error; err != nil {
		return nil, err
	}
	return soldiers, nil
}
