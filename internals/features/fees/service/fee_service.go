// file: internals/features/fees/service/fee_service.go
package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/fees/model"
)

var (
	// ErrFeeReferenced: the fee type already backs period configs or invoice
	// lines; deleting it would rewrite billing history.
	ErrFeeReferenced = errors.New("fee type is referenced by billing records")
)

type FeeService struct {
	DB *gorm.DB
}

func NewFeeService(db *gorm.DB) *FeeService { return &FeeService{DB: db} }

func (s *FeeService) List(managerUserID uuid.UUID, onlyActive bool) ([]model.LoaiPhi, error) {
	q := s.DB.Model(&model.LoaiPhi{}).Order("loai_phi_ten ASC")
	if managerUserID != uuid.Nil {
		q = q.Where("loai_phi_manager_user_id = ?", managerUserID)
	}
	if onlyActive {
		q = q.Where("loai_phi_dang_hoat_dong = ?", true)
	}
	var out []model.LoaiPhi
	err := q.Find(&out).Error
	return out, err
}

func (s *FeeService) Get(id uuid.UUID) (model.LoaiPhi, error) {
	var m model.LoaiPhi
	err := s.DB.First(&m, "loai_phi_id = ?", id).Error
	return m, err
}

func (s *FeeService) Create(m *model.LoaiPhi) error {
	return s.DB.Create(m).Error
}

func (s *FeeService) Save(m *model.LoaiPhi) error {
	return s.DB.Save(m).Error
}

// Delete refuses when the fee type is referenced by any period config or
// invoice line. Table names are queried directly to keep the fees package
// free of a dependency on the billing package.
func (s *FeeService) Delete(id uuid.UUID) error {
	var refs int64
	if err := s.DB.Table("dot_thu_phi").
		Where("dot_thu_phi_loai_phi_id = ?", id).
		Count(&refs).Error; err != nil {
		return err
	}
	if refs == 0 {
		if err := s.DB.Table("hoa_don_chi_tiet").
			Where("hoa_don_chi_tiet_loai_phi_id = ?", id).
			Count(&refs).Error; err != nil {
			return err
		}
	}
	if refs > 0 {
		return ErrFeeReferenced
	}
	return s.DB.Delete(&model.LoaiPhi{}, "loai_phi_id = ?", id).Error
}

// UpsertOverride sets the per-building price for a fee type.
func (s *FeeService) UpsertOverride(buildingID, feeTypeID uuid.UUID, price int64) (model.BangGiaDichVu, error) {
	var row model.BangGiaDichVu
	err := s.DB.
		Where("bang_gia_toa_nha_id = ? AND bang_gia_loai_phi_id = ?", buildingID, feeTypeID).
		First(&row).Error
	switch {
	case err == nil:
		row.BangGiaDonGia = price
		return row, s.DB.Save(&row).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = model.BangGiaDichVu{
			BangGiaToaNhaID:  buildingID,
			BangGiaLoaiPhiID: feeTypeID,
			BangGiaDonGia:    price,
		}
		return row, s.DB.Create(&row).Error
	default:
		return row, err
	}
}

func (s *FeeService) DeleteOverride(buildingID, feeTypeID uuid.UUID) error {
	return s.DB.
		Where("bang_gia_toa_nha_id = ? AND bang_gia_loai_phi_id = ?", buildingID, feeTypeID).
		Delete(&model.BangGiaDichVu{}).Error
}

func (s *FeeService) ListOverrides(buildingID uuid.UUID) ([]model.BangGiaDichVu, error) {
	var out []model.BangGiaDichVu
	err := s.DB.
		Where("bang_gia_toa_nha_id = ?", buildingID).
		Find(&out).Error
	return out, err
}
