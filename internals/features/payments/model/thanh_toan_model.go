// file: internals/features/payments/model/thanh_toan_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --- ENUM thanh_toan_phuong_thuc ---------------------------------------------
type ThanhToanPhuongThuc string

const (
	ThanhToanTienMat     ThanhToanPhuongThuc = "cash"
	ThanhToanChuyenKhoan ThanhToanPhuongThuc = "bank_transfer"
	ThanhToanVNPay       ThanhToanPhuongThuc = "vnpay"
	ThanhToanKhac        ThanhToanPhuongThuc = "other"
)

func (p ThanhToanPhuongThuc) Valid() bool {
	switch p {
	case ThanhToanTienMat, ThanhToanChuyenKhoan, ThanhToanVNPay, ThanhToanKhac:
		return true
	}
	return false
}

// ThanhToan is one payment against one invoice. The ledger is append-only:
// rows are never updated or deleted, corrections happen as new entries on
// the accounting side.
type ThanhToan struct {
	ThanhToanID uuid.UUID `json:"thanh_toan_id" gorm:"column:thanh_toan_id;type:uuid;primaryKey"`

	ThanhToanHoaDonID uuid.UUID `json:"thanh_toan_hoa_don_id" gorm:"column:thanh_toan_hoa_don_id;type:uuid;not null;index:idx_thanh_toan_hoa_don"`

	// VND, strictly positive
	ThanhToanSoTien int64 `json:"thanh_toan_so_tien" gorm:"column:thanh_toan_so_tien;not null;check:thanh_toan_so_tien>0"`

	ThanhToanPhuongThuc ThanhToanPhuongThuc `json:"thanh_toan_phuong_thuc" gorm:"column:thanh_toan_phuong_thuc;type:varchar(20);not null;default:'cash'"`

	ThanhToanNgay time.Time `json:"thanh_toan_ngay" gorm:"column:thanh_toan_ngay;not null"`

	// Staff account that recorded this entry
	ThanhToanNguoiGhiID *uuid.UUID `json:"thanh_toan_nguoi_ghi_id,omitempty" gorm:"column:thanh_toan_nguoi_ghi_id;type:uuid"`

	// Gateway references (vnpay transaction no, bank ref, ...)
	ThanhToanMeta datatypes.JSONMap `json:"thanh_toan_meta,omitempty" gorm:"column:thanh_toan_meta;type:jsonb"`

	ThanhToanCreatedAt time.Time `json:"thanh_toan_created_at" gorm:"column:thanh_toan_created_at;not null;autoCreateTime"`
}

func (ThanhToan) TableName() string { return "thanh_toan" }

func (m *ThanhToan) BeforeCreate(tx *gorm.DB) error {
	if m.ThanhToanID == uuid.Nil {
		m.ThanhToanID = uuid.New()
	}
	if m.ThanhToanHoaDonID == uuid.Nil {
		return fmt.Errorf("thanh_toan_hoa_don_id is required")
	}
	if m.ThanhToanSoTien <= 0 {
		return fmt.Errorf("thanh_toan_so_tien must be positive")
	}
	if !m.ThanhToanPhuongThuc.Valid() {
		return fmt.Errorf("thanh_toan_phuong_thuc %q is not valid", m.ThanhToanPhuongThuc)
	}
	if m.ThanhToanNgay.IsZero() {
		m.ThanhToanNgay = time.Now()
	}
	return nil
}
