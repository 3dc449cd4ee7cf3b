// file: internals/features/readings/model/chi_so_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChiSoDienNuoc is one utility meter reading. Readings are recorded monthly,
// independent of any collection period; periods reach into this table via
// their own (target month, target year). Unique per
// (household, fee type, month, year); re-saving overwrites.
type ChiSoDienNuoc struct {
	ChiSoID uuid.UUID `json:"chi_so_id" gorm:"column:chi_so_id;type:uuid;primaryKey"`

	ChiSoHoGiaDinhID uuid.UUID `json:"chi_so_ho_gia_dinh_id" gorm:"column:chi_so_ho_gia_dinh_id;type:uuid;not null;index:uniq_chi_so_key,unique,priority:1"`
	ChiSoLoaiPhiID   uuid.UUID `json:"chi_so_loai_phi_id" gorm:"column:chi_so_loai_phi_id;type:uuid;not null;index:uniq_chi_so_key,unique,priority:2"`

	ChiSoThang int `json:"chi_so_thang" gorm:"column:chi_so_thang;type:smallint;not null;check:chi_so_thang BETWEEN 1 AND 12;index:uniq_chi_so_key,unique,priority:3"`
	ChiSoNam   int `json:"chi_so_nam" gorm:"column:chi_so_nam;type:smallint;not null;index:uniq_chi_so_key,unique,priority:4"`

	// Previous / new meter values (denormalized chi_so_cu for display)
	ChiSoCu  int64 `json:"chi_so_cu" gorm:"column:chi_so_cu;not null;default:0;check:chi_so_cu>=0"`
	ChiSoMoi int64 `json:"chi_so_moi" gorm:"column:chi_so_moi;not null;check:chi_so_moi>=0"`

	ChiSoCreatedAt time.Time `json:"chi_so_created_at" gorm:"column:chi_so_created_at;not null;autoCreateTime"`
	ChiSoUpdatedAt time.Time `json:"chi_so_updated_at" gorm:"column:chi_so_updated_at;not null;autoUpdateTime"`
}

func (ChiSoDienNuoc) TableName() string { return "chi_so_dien_nuoc" }

func (m *ChiSoDienNuoc) BeforeCreate(tx *gorm.DB) error {
	if m.ChiSoID == uuid.Nil {
		m.ChiSoID = uuid.New()
	}
	return m.validate()
}

func (m *ChiSoDienNuoc) BeforeSave(tx *gorm.DB) error { return m.validate() }

func (m *ChiSoDienNuoc) validate() error {
	if m.ChiSoThang < 1 || m.ChiSoThang > 12 {
		return fmt.Errorf("chi_so_thang must be 1-12")
	}
	if m.ChiSoMoi < 0 || m.ChiSoCu < 0 {
		return fmt.Errorf("meter values must be >= 0")
	}
	return nil
}
