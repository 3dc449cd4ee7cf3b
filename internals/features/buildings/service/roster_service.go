// file: internals/features/buildings/service/roster_service.go
package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/buildings/model"
)

// RosterService is the read-only household roster lookup the billing engine
// consumes. Households are maintained by the registry side of the system.
type RosterService struct {
	DB *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService { return &RosterService{DB: db} }

// ListHouseholds returns every active household of a building, ordered by
// display code (stable order matters for reading-entry forms).
func (s *RosterService) ListHouseholds(buildingID uuid.UUID) ([]model.HoGiaDinh, error) {
	var out []model.HoGiaDinh
	err := s.DB.
		Where("ho_gia_dinh_toa_nha_id = ?", buildingID).
		Order("ho_gia_dinh_ma ASC").
		Find(&out).Error
	return out, err
}

// ListHouseholdsPage is the paginated variant for the roster endpoint.
func (s *RosterService) ListHouseholdsPage(buildingID uuid.UUID, offset, limit int) ([]model.HoGiaDinh, int64, error) {
	total, err := s.CountHouseholds(buildingID)
	if err != nil {
		return nil, 0, err
	}
	var out []model.HoGiaDinh
	err = s.DB.
		Where("ho_gia_dinh_toa_nha_id = ?", buildingID).
		Order("ho_gia_dinh_ma ASC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, total, err
}

// GetBuilding loads a single building row.
func (s *RosterService) GetBuilding(buildingID uuid.UUID) (model.ToaNha, error) {
	var t model.ToaNha
	err := s.DB.First(&t, "toa_nha_id = ?", buildingID).Error
	return t, err
}

// CountHouseholds is used by the reading-entry statistics.
func (s *RosterService) CountHouseholds(buildingID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.Model(&model.HoGiaDinh{}).
		Where("ho_gia_dinh_toa_nha_id = ?", buildingID).
		Count(&n).Error
	return n, err
}
