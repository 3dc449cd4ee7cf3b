// file: internals/features/fees/model/bang_gia_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BangGiaDichVu is a per-building unit-price override. Priority when
// resolving a price: BangGiaDichVu > LoaiPhi.LoaiPhiDonGia > 0.
type BangGiaDichVu struct {
	BangGiaID uuid.UUID `json:"bang_gia_id" gorm:"column:bang_gia_id;type:uuid;primaryKey"`

	BangGiaToaNhaID  uuid.UUID `json:"bang_gia_toa_nha_id" gorm:"column:bang_gia_toa_nha_id;type:uuid;not null;index:uniq_bang_gia_toa_phi,unique,priority:1"`
	BangGiaLoaiPhiID uuid.UUID `json:"bang_gia_loai_phi_id" gorm:"column:bang_gia_loai_phi_id;type:uuid;not null;index:uniq_bang_gia_toa_phi,unique,priority:2"`

	BangGiaDonGia int64 `json:"bang_gia_don_gia" gorm:"column:bang_gia_don_gia;not null;check:bang_gia_don_gia>=0"`

	BangGiaCreatedAt time.Time      `json:"bang_gia_created_at" gorm:"column:bang_gia_created_at;not null;autoCreateTime"`
	BangGiaUpdatedAt time.Time      `json:"bang_gia_updated_at" gorm:"column:bang_gia_updated_at;not null;autoUpdateTime"`
	BangGiaDeletedAt gorm.DeletedAt `json:"-" gorm:"column:bang_gia_deleted_at;index"`
}

func (BangGiaDichVu) TableName() string { return "bang_gia_dich_vu" }

func (m *BangGiaDichVu) BeforeCreate(tx *gorm.DB) error {
	if m.BangGiaID == uuid.Nil {
		m.BangGiaID = uuid.New()
	}
	if m.BangGiaToaNhaID == uuid.Nil || m.BangGiaLoaiPhiID == uuid.Nil {
		return fmt.Errorf("bang_gia_toa_nha_id and bang_gia_loai_phi_id are required")
	}
	return nil
}
