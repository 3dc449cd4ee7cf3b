// file: internals/features/billing/model/dot_thu_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- ENUM dot_thu_loai -------------------------------------------------------
type DotThuLoai string

const (
	DotThuDinhKy  DotThuLoai = "dinh_ky"  // recurring fees (phí định kỳ)
	DotThuDongGop DotThuLoai = "dong_gop" // voluntary contribution drive
)

// DotThu is one collection period (đợt thu): a named, time-boxed billing
// cycle scoped to exactly one building, binding a set of fee types to a
// target (month, year). Invoice calculation is blocked until the target
// month AND year are configured.
type DotThu struct {
	DotThuID uuid.UUID `json:"dot_thu_id" gorm:"column:dot_thu_id;type:uuid;primaryKey"`

	DotThuTen      string     `json:"dot_thu_ten" gorm:"column:dot_thu_ten;type:varchar(150);not null"`
	DotThuToaNhaID uuid.UUID  `json:"dot_thu_toa_nha_id" gorm:"column:dot_thu_toa_nha_id;type:uuid;not null;index:idx_dot_thu_toa_nha"`
	DotThuLoai     DotThuLoai `json:"dot_thu_loai" gorm:"column:dot_thu_loai;type:varchar(20);not null;default:'dinh_ky'"`

	DotThuBatDau  *time.Time `json:"dot_thu_bat_dau,omitempty" gorm:"column:dot_thu_bat_dau;type:date"`
	DotThuKetThuc *time.Time `json:"dot_thu_ket_thuc,omitempty" gorm:"column:dot_thu_ket_thuc;type:date"`

	// Billing target, nullable until configured
	DotThuThang *int `json:"dot_thu_thang,omitempty" gorm:"column:dot_thu_thang;type:smallint"`
	DotThuNam   *int `json:"dot_thu_nam,omitempty" gorm:"column:dot_thu_nam;type:smallint"`

	DotThuCreatedAt time.Time      `json:"dot_thu_created_at" gorm:"column:dot_thu_created_at;not null;autoCreateTime"`
	DotThuUpdatedAt time.Time      `json:"dot_thu_updated_at" gorm:"column:dot_thu_updated_at;not null;autoUpdateTime"`
	DotThuDeletedAt gorm.DeletedAt `json:"-" gorm:"column:dot_thu_deleted_at;index"`
}

func (DotThu) TableName() string { return "dot_thu" }

func (m *DotThu) BeforeCreate(tx *gorm.DB) error {
	if m.DotThuID == uuid.Nil {
		m.DotThuID = uuid.New()
	}
	if m.DotThuToaNhaID == uuid.Nil {
		return fmt.Errorf("dot_thu_toa_nha_id is required")
	}
	return m.validateTarget()
}

func (m *DotThu) BeforeSave(tx *gorm.DB) error { return m.validateTarget() }

func (m *DotThu) validateTarget() error {
	if m.DotThuThang != nil && (*m.DotThuThang < 1 || *m.DotThuThang > 12) {
		return fmt.Errorf("dot_thu_thang must be 1-12")
	}
	return nil
}

// TargetConfigured reports whether both month and year are set.
func (m *DotThu) TargetConfigured() bool {
	return m.DotThuThang != nil && m.DotThuNam != nil
}
