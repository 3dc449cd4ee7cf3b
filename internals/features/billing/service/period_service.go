// file: internals/features/billing/service/period_service.go
package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/billing/model"
	feemodel "quanlychungcu_backend/internals/features/fees/model"
	feesvc "quanlychungcu_backend/internals/features/fees/service"
)

// PeriodService owns the collection-period lifecycle: create/update/delete
// and attaching/detaching fee types with price snapshots.
type PeriodService struct {
	DB     *gorm.DB
	Prices *feesvc.PriceResolver
}

func NewPeriodService(db *gorm.DB) *PeriodService {
	return &PeriodService{DB: db, Prices: feesvc.NewPriceResolver(db)}
}

func (s *PeriodService) Get(id uuid.UUID) (model.DotThu, error) {
	var m model.DotThu
	err := s.DB.First(&m, "dot_thu_id = ?", id).Error
	return m, err
}

func (s *PeriodService) ListByBuilding(buildingID uuid.UUID) ([]model.DotThu, error) {
	var out []model.DotThu
	err := s.DB.
		Where("dot_thu_toa_nha_id = ?", buildingID).
		Order("dot_thu_created_at DESC").
		Find(&out).Error
	return out, err
}

func (s *PeriodService) Create(m *model.DotThu) error {
	return s.DB.Create(m).Error
}

func (s *PeriodService) Save(m *model.DotThu) error {
	return s.DB.Save(m).Error
}

// Delete removes a period and its fee configs. Blocked while any invoice
// exists; no silent cascade over billing history.
func (s *PeriodService) Delete(id uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var invoices int64
		if err := tx.Model(&model.HoaDon{}).
			Where("hoa_don_dot_thu_id = ?", id).
			Count(&invoices).Error; err != nil {
			return err
		}
		if invoices > 0 {
			return ErrPeriodHasInvoices
		}
		if err := tx.Where("dot_thu_phi_dot_thu_id = ?", id).
			Delete(&model.DotThuPhi{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.DotThu{}, "dot_thu_id = ?", id).Error
	})
}

// ListFeeConfigs returns the period's attached fees with snapshot prices.
func (s *PeriodService) ListFeeConfigs(periodID uuid.UUID) ([]model.DotThuPhi, error) {
	var out []model.DotThuPhi
	err := s.DB.
		Where("dot_thu_phi_dot_thu_id = ?", periodID).
		Order("dot_thu_phi_created_at ASC").
		Find(&out).Error
	return out, err
}

// AttachFee binds a fee type to the period, snapshotting the effective unit
// price (building override > fee default) at this moment. Returns the config
// plus whether invoices already exist (caller should re-run calculation).
func (s *PeriodService) AttachFee(periodID, feeTypeID uuid.UUID) (model.DotThuPhi, bool, error) {
	var cfg model.DotThuPhi

	period, err := s.Get(periodID)
	if err != nil {
		return cfg, false, err
	}

	// the fee type must exist before its price is resolved: the resolver
	// answers 0 for an unknown id, which would attach a ghost fee that
	// bills nothing
	var fee feemodel.LoaiPhi
	if err := s.DB.First(&fee, "loai_phi_id = ?", feeTypeID).Error; err != nil {
		return cfg, false, err
	}

	var dup int64
	if err := s.DB.Model(&model.DotThuPhi{}).
		Where("dot_thu_phi_dot_thu_id = ? AND dot_thu_phi_loai_phi_id = ?", periodID, feeTypeID).
		Count(&dup).Error; err != nil {
		return cfg, false, err
	}
	if dup > 0 {
		return cfg, false, ErrFeeAlreadyAttached
	}

	price, err := s.Prices.EffectivePrice(feeTypeID, period.DotThuToaNhaID)
	if err != nil {
		return cfg, false, err
	}

	cfg = model.DotThuPhi{
		DotThuPhiDotThuID:  periodID,
		DotThuPhiLoaiPhiID: feeTypeID,
		DotThuPhiDonGia:    price,
	}
	if err := s.DB.Create(&cfg).Error; err != nil {
		return cfg, false, err
	}

	hasInvoices, err := s.periodHasInvoices(periodID)
	return cfg, hasInvoices, err
}

// DetachFee removes a fee from the period. Blocked once any payment exists
// on the period's invoices (see ErrFeeHasPayments). Returns whether invoices
// exist so the caller knows a recalculation is due.
func (s *PeriodService) DetachFee(periodID, feeTypeID uuid.UUID) (bool, error) {
	var cfg model.DotThuPhi
	err := s.DB.
		Where("dot_thu_phi_dot_thu_id = ? AND dot_thu_phi_loai_phi_id = ?", periodID, feeTypeID).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrFeeNotAttached
	}
	if err != nil {
		return false, err
	}

	hasPayments, err := s.periodHasPayments(periodID)
	if err != nil {
		return false, err
	}
	if hasPayments {
		return false, ErrFeeHasPayments
	}

	if err := s.DB.Delete(&cfg).Error; err != nil {
		return false, err
	}
	return s.periodHasInvoices(periodID)
}

func (s *PeriodService) periodHasInvoices(periodID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.Model(&model.HoaDon{}).
		Where("hoa_don_dot_thu_id = ?", periodID).
		Count(&n).Error
	return n > 0, err
}

// periodHasPayments queries the ledger table directly; the payments
// package depends on billing, not the other way around.
func (s *PeriodService) periodHasPayments(periodID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.Table("thanh_toan").
		Where("thanh_toan_hoa_don_id IN (?)",
			s.DB.Model(&model.HoaDon{}).Select("hoa_don_id").Where("hoa_don_dot_thu_id = ?", periodID)).
		Count(&n).Error
	return n > 0, err
}
