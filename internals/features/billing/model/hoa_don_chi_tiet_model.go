// file: internals/features/billing/model/hoa_don_chi_tiet_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HoaDonChiTiet is one invoice line item: (invoice, fee type) → quantity ×
// snapshot unit price. Lines are regenerated wholesale on every
// recalculation of their invoice, never patched individually.
type HoaDonChiTiet struct {
	HoaDonChiTietID uuid.UUID `json:"hoa_don_chi_tiet_id" gorm:"column:hoa_don_chi_tiet_id;type:uuid;primaryKey"`

	HoaDonChiTietHoaDonID  uuid.UUID `json:"hoa_don_chi_tiet_hoa_don_id" gorm:"column:hoa_don_chi_tiet_hoa_don_id;type:uuid;not null;index:uniq_hoa_don_line,unique,priority:1"`
	HoaDonChiTietLoaiPhiID uuid.UUID `json:"hoa_don_chi_tiet_loai_phi_id" gorm:"column:hoa_don_chi_tiet_loai_phi_id;type:uuid;not null;index:uniq_hoa_don_line,unique,priority:2"`

	// quantity: 1 for fixed fees, consumption units for metered fees
	HoaDonChiTietSoLuong   int64 `json:"hoa_don_chi_tiet_so_luong" gorm:"column:hoa_don_chi_tiet_so_luong;not null;check:hoa_don_chi_tiet_so_luong>=0"`
	HoaDonChiTietDonGia    int64 `json:"hoa_don_chi_tiet_don_gia" gorm:"column:hoa_don_chi_tiet_don_gia;not null;check:hoa_don_chi_tiet_don_gia>=0"`
	HoaDonChiTietThanhTien int64 `json:"hoa_don_chi_tiet_thanh_tien" gorm:"column:hoa_don_chi_tiet_thanh_tien;not null;check:hoa_don_chi_tiet_thanh_tien>=0"`

	HoaDonChiTietCreatedAt time.Time `json:"hoa_don_chi_tiet_created_at" gorm:"column:hoa_don_chi_tiet_created_at;not null;autoCreateTime"`
}

func (HoaDonChiTiet) TableName() string { return "hoa_don_chi_tiet" }

func (m *HoaDonChiTiet) BeforeCreate(tx *gorm.DB) error {
	if m.HoaDonChiTietID == uuid.Nil {
		m.HoaDonChiTietID = uuid.New()
	}
	if m.HoaDonChiTietHoaDonID == uuid.Nil || m.HoaDonChiTietLoaiPhiID == uuid.Nil {
		return fmt.Errorf("hoa_don_chi_tiet_hoa_don_id and hoa_don_chi_tiet_loai_phi_id are required")
	}
	if m.HoaDonChiTietThanhTien != m.HoaDonChiTietSoLuong*m.HoaDonChiTietDonGia {
		return fmt.Errorf("hoa_don_chi_tiet_thanh_tien must equal so_luong * don_gia")
	}
	return nil
}
