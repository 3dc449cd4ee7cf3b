// file: internals/features/payments/service/payment_service.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	billingmodel "quanlychungcu_backend/internals/features/billing/model"
	"quanlychungcu_backend/internals/features/payments/model"
	helper "quanlychungcu_backend/internals/helpers"
)

var (
	ErrInvalidAmount = errors.New("payment amount must be positive")
	ErrOverpayment   = errors.New("payment exceeds the invoice remainder")
)

// PaymentService owns the payment ledger and keeps the invoice's paid
// amount and status in step with it.
type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

type RecordPaymentInput struct {
	HoaDonID   uuid.UUID
	SoTien     int64
	PhuongThuc model.ThanhToanPhuongThuc
	Ngay       *time.Time
	NguoiGhiID *uuid.UUID
	Meta       datatypes.JSONMap
}

// RecordPayment appends one ledger entry and recomputes the invoice from the
// ledger inside a single row-locked transaction. Overpayment is rejected:
// the remainder is the hard ceiling (partial payments up to it are fine).
func (s *PaymentService) RecordPayment(in RecordPaymentInput) (model.ThanhToan, billingmodel.HoaDon, error) {
	var (
		entry model.ThanhToan
		inv   billingmodel.HoaDon
	)
	if in.SoTien <= 0 {
		return entry, inv, ErrInvalidAmount
	}
	if in.PhuongThuc == "" {
		in.PhuongThuc = model.ThanhToanTienMat
	}
	if !in.PhuongThuc.Valid() {
		return entry, inv, fmt.Errorf("unknown payment method %q", in.PhuongThuc)
	}

	err := helper.RetryOnConflict(func() error {
		entry = model.ThanhToan{}
		inv = billingmodel.HoaDon{}
		return s.DB.Transaction(func(tx *gorm.DB) error {
			if err := helper.LockForUpdate(tx).
				First(&inv, "hoa_don_id = ?", in.HoaDonID).Error; err != nil {
				return err
			}

			remainder := inv.HoaDonTongTien - inv.HoaDonDaThanhToan
			if in.SoTien > remainder {
				return ErrOverpayment
			}

			entry = model.ThanhToan{
				ThanhToanHoaDonID:   in.HoaDonID,
				ThanhToanSoTien:     in.SoTien,
				ThanhToanPhuongThuc: in.PhuongThuc,
				ThanhToanNguoiGhiID: in.NguoiGhiID,
				ThanhToanMeta:       in.Meta,
			}
			if in.Ngay != nil {
				entry.ThanhToanNgay = *in.Ngay
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}

			// paid amount always derives from the ledger, never from += math
			var paid int64
			if err := tx.Model(&model.ThanhToan{}).
				Where("thanh_toan_hoa_don_id = ?", in.HoaDonID).
				Select("COALESCE(SUM(thanh_toan_so_tien), 0)").
				Scan(&paid).Error; err != nil {
				return err
			}

			inv.HoaDonDaThanhToan = paid
			inv.HoaDonTrangThai = billingmodel.DeriveTrangThai(inv.HoaDonTongTien, paid)
			return tx.Save(&inv).Error
		})
	})
	return entry, inv, err
}

// ListPayments returns the ledger of one invoice, oldest first.
func (s *PaymentService) ListPayments(invoiceID uuid.UUID) ([]model.ThanhToan, error) {
	var out []model.ThanhToan
	err := s.DB.
		Where("thanh_toan_hoa_don_id = ?", invoiceID).
		Order("thanh_toan_ngay ASC, thanh_toan_created_at ASC").
		Find(&out).Error
	return out, err
}
