// file: internals/features/billing/model/hoa_don_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- ENUM hoa_don_trang_thai -------------------------------------------------
type HoaDonTrangThai string

const (
	HoaDonUnpaid        HoaDonTrangThai = "unpaid"
	HoaDonPartiallyPaid HoaDonTrangThai = "partially_paid"
	HoaDonPaid          HoaDonTrangThai = "paid"
)

// DeriveTrangThai computes the invoice status from amount due vs amount
// paid. A zero-due invoice counts as paid.
func DeriveTrangThai(tongTien, daThanhToan int64) HoaDonTrangThai {
	switch {
	case daThanhToan >= tongTien:
		return HoaDonPaid
	case daThanhToan > 0:
		return HoaDonPartiallyPaid
	default:
		return HoaDonUnpaid
	}
}

// HoaDon is the invoice of one household for one collection period,
// unique per (household, period). Recalculation rewrites the due amount and
// line items wholesale but never touches the paid amount or the payment log.
type HoaDon struct {
	HoaDonID uuid.UUID `json:"hoa_don_id" gorm:"column:hoa_don_id;type:uuid;primaryKey"`

	HoaDonDotThuID    uuid.UUID `json:"hoa_don_dot_thu_id" gorm:"column:hoa_don_dot_thu_id;type:uuid;not null;index:uniq_hoa_don_dot_ho,unique,priority:1"`
	HoaDonHoGiaDinhID uuid.UUID `json:"hoa_don_ho_gia_dinh_id" gorm:"column:hoa_don_ho_gia_dinh_id;type:uuid;not null;index:uniq_hoa_don_dot_ho,unique,priority:2;index:idx_hoa_don_ho"`

	// Amounts in VND
	HoaDonTongTien    int64 `json:"hoa_don_tong_tien" gorm:"column:hoa_don_tong_tien;not null;check:hoa_don_tong_tien>=0"`
	HoaDonDaThanhToan int64 `json:"hoa_don_da_thanh_toan" gorm:"column:hoa_don_da_thanh_toan;not null;default:0;check:hoa_don_da_thanh_toan>=0"`

	HoaDonTrangThai HoaDonTrangThai `json:"hoa_don_trang_thai" gorm:"column:hoa_don_trang_thai;type:varchar(20);not null;default:'unpaid';index:idx_hoa_don_trang_thai"`

	// Last time the calculator rewrote this invoice
	HoaDonTinhLuc *time.Time `json:"hoa_don_tinh_luc,omitempty" gorm:"column:hoa_don_tinh_luc"`

	HoaDonCreatedAt time.Time `json:"hoa_don_created_at" gorm:"column:hoa_don_created_at;not null;autoCreateTime"`
	HoaDonUpdatedAt time.Time `json:"hoa_don_updated_at" gorm:"column:hoa_don_updated_at;not null;autoUpdateTime"`
}

func (HoaDon) TableName() string { return "hoa_don" }

func (m *HoaDon) BeforeCreate(tx *gorm.DB) error {
	if m.HoaDonID == uuid.Nil {
		m.HoaDonID = uuid.New()
	}
	if m.HoaDonDotThuID == uuid.Nil || m.HoaDonHoGiaDinhID == uuid.Nil {
		return fmt.Errorf("hoa_don_dot_thu_id and hoa_don_ho_gia_dinh_id are required")
	}
	return nil
}
