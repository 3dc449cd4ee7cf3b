// file: internals/features/fees/model/loai_phi_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- ENUM loai_phi_cach_tinh -------------------------------------------------
// fixed: flat amount per household per period (phí cố định)
// consumption: meter delta × unit price (điện / nước)
type LoaiPhiCachTinh string

const (
	LoaiPhiFixed       LoaiPhiCachTinh = "fixed"
	LoaiPhiConsumption LoaiPhiCachTinh = "consumption"
)

// --- MODEL loai_phi ----------------------------------------------------------
type LoaiPhi struct {
	// PK
	LoaiPhiID uuid.UUID `json:"loai_phi_id" gorm:"column:loai_phi_id;type:uuid;primaryKey"`

	LoaiPhiTen       string `json:"loai_phi_ten" gorm:"column:loai_phi_ten;type:varchar(100);not null"`
	LoaiPhiDonViTinh string `json:"loai_phi_don_vi_tinh" gorm:"column:loai_phi_don_vi_tinh;type:varchar(50)"` // kWh, m3, tháng…

	LoaiPhiCachTinh LoaiPhiCachTinh `json:"loai_phi_cach_tinh" gorm:"column:loai_phi_cach_tinh;type:varchar(20);not null;default:'fixed';index:idx_loai_phi_cach_tinh"`

	// BatBuoc=true → mandatory fee; false → voluntary (tự nguyện)
	LoaiPhiBatBuoc bool `json:"loai_phi_bat_buoc" gorm:"column:loai_phi_bat_buoc;not null;default:true"`

	// Default unit price, VND (integer, no floating point money)
	LoaiPhiDonGia int64 `json:"loai_phi_don_gia" gorm:"column:loai_phi_don_gia;not null;check:loai_phi_don_gia>=0"`

	LoaiPhiMoTa         *string `json:"loai_phi_mo_ta,omitempty" gorm:"column:loai_phi_mo_ta;type:varchar(255)"`
	LoaiPhiDangHoatDong bool    `json:"loai_phi_dang_hoat_dong" gorm:"column:loai_phi_dang_hoat_dong;not null;default:true"`

	// Owning manager (fee types are per manager, shared across their buildings)
	LoaiPhiManagerUserID uuid.UUID `json:"loai_phi_manager_user_id" gorm:"column:loai_phi_manager_user_id;type:uuid;not null;index:idx_loai_phi_manager"`

	LoaiPhiCreatedAt time.Time      `json:"loai_phi_created_at" gorm:"column:loai_phi_created_at;not null;autoCreateTime"`
	LoaiPhiUpdatedAt time.Time      `json:"loai_phi_updated_at" gorm:"column:loai_phi_updated_at;not null;autoUpdateTime"`
	LoaiPhiDeletedAt gorm.DeletedAt `json:"-" gorm:"column:loai_phi_deleted_at;index"`
}

func (LoaiPhi) TableName() string { return "loai_phi" }

func (m *LoaiPhi) BeforeCreate(tx *gorm.DB) error {
	if m.LoaiPhiID == uuid.Nil {
		m.LoaiPhiID = uuid.New()
	}
	return m.validateKind()
}

func (m *LoaiPhi) BeforeSave(tx *gorm.DB) error { return m.validateKind() }

func (m *LoaiPhi) validateKind() error {
	switch m.LoaiPhiCachTinh {
	case LoaiPhiFixed, LoaiPhiConsumption:
		return nil
	default:
		return fmt.Errorf("loai_phi_cach_tinh must be 'fixed' or 'consumption'")
	}
}

func (m *LoaiPhi) IsConsumption() bool { return m.LoaiPhiCachTinh == LoaiPhiConsumption }
