// file: internals/features/buildings/model/ho_gia_dinh_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HoGiaDinh is one household (căn hộ) inside a building. The roster is the
// unit the billing engine iterates over.
type HoGiaDinh struct {
	HoGiaDinhID uuid.UUID `json:"ho_gia_dinh_id" gorm:"column:ho_gia_dinh_id;type:uuid;primaryKey"`

	HoGiaDinhToaNhaID uuid.UUID `json:"ho_gia_dinh_toa_nha_id" gorm:"column:ho_gia_dinh_toa_nha_id;type:uuid;not null;index:idx_ho_gia_dinh_toa_nha;index:uniq_ho_ma_per_toa,unique,priority:1"`

	// Display code, e.g. "HGD-A0302", unique inside a building
	HoGiaDinhMa string `json:"ho_gia_dinh_ma" gorm:"column:ho_gia_dinh_ma;type:varchar(30);not null;index:uniq_ho_ma_per_toa,unique,priority:2"`

	HoGiaDinhTenChuHo string `json:"ho_gia_dinh_ten_chu_ho" gorm:"column:ho_gia_dinh_ten_chu_ho;type:varchar(100);not null"`
	HoGiaDinhSoCanHo  string `json:"ho_gia_dinh_so_can_ho" gorm:"column:ho_gia_dinh_so_can_ho;type:varchar(20)"`

	// Head-of-household user account (nullable; resident portal link)
	HoGiaDinhChuHoUserID *uuid.UUID `json:"ho_gia_dinh_chu_ho_user_id,omitempty" gorm:"column:ho_gia_dinh_chu_ho_user_id;type:uuid;index"`

	HoGiaDinhCreatedAt time.Time      `json:"ho_gia_dinh_created_at" gorm:"column:ho_gia_dinh_created_at;not null;autoCreateTime"`
	HoGiaDinhUpdatedAt time.Time      `json:"ho_gia_dinh_updated_at" gorm:"column:ho_gia_dinh_updated_at;not null;autoUpdateTime"`
	HoGiaDinhDeletedAt gorm.DeletedAt `json:"-" gorm:"column:ho_gia_dinh_deleted_at;index"`
}

func (HoGiaDinh) TableName() string { return "ho_gia_dinh" }

func (h *HoGiaDinh) BeforeCreate(tx *gorm.DB) error {
	if h.HoGiaDinhID == uuid.Nil {
		h.HoGiaDinhID = uuid.New()
	}
	if h.HoGiaDinhToaNhaID == uuid.Nil {
		return fmt.Errorf("ho_gia_dinh_toa_nha_id is required")
	}
	return nil
}
