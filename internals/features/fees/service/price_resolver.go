// file: internals/features/fees/service/price_resolver.go
package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/fees/model"
)

// PriceResolver resolves the effective unit price of a fee type for one
// building. Priority: building override > fee-type default > 0. The result
// is consumed once, at fee-attach time; period configs snapshot it so later
// price-list edits never touch an open period.
type PriceResolver struct {
	DB *gorm.DB
}

func NewPriceResolver(db *gorm.DB) *PriceResolver { return &PriceResolver{DB: db} }

// EffectivePrice returns the unit price in VND.
func (r *PriceResolver) EffectivePrice(feeTypeID, buildingID uuid.UUID) (int64, error) {
	if feeTypeID == uuid.Nil {
		return 0, nil
	}

	// 1) building-specific override
	if buildingID != uuid.Nil {
		var override model.BangGiaDichVu
		err := r.DB.
			Where("bang_gia_loai_phi_id = ? AND bang_gia_toa_nha_id = ?", feeTypeID, buildingID).
			First(&override).Error
		if err == nil {
			return override.BangGiaDonGia, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
	}

	// 2) default price on the fee type
	var fee model.LoaiPhi
	err := r.DB.First(&fee, "loai_phi_id = ?", feeTypeID).Error
	if err == nil {
		return fee.LoaiPhiDonGia, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return 0, err
}
