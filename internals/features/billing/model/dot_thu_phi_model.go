// file: internals/features/billing/model/dot_thu_phi_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DotThuPhi attaches one fee type to a collection period. The unit price is
// snapshotted at attach time (building override > fee default); later edits
// to the price list never change an open period's calculation basis.
// A fee type appears at most once per period.
type DotThuPhi struct {
	DotThuPhiID uuid.UUID `json:"dot_thu_phi_id" gorm:"column:dot_thu_phi_id;type:uuid;primaryKey"`

	DotThuPhiDotThuID  uuid.UUID `json:"dot_thu_phi_dot_thu_id" gorm:"column:dot_thu_phi_dot_thu_id;type:uuid;not null;index:uniq_dot_thu_phi,unique,priority:1"`
	DotThuPhiLoaiPhiID uuid.UUID `json:"dot_thu_phi_loai_phi_id" gorm:"column:dot_thu_phi_loai_phi_id;type:uuid;not null;index:uniq_dot_thu_phi,unique,priority:2"`

	// Snapshot unit price (VND) captured at attach time
	DotThuPhiDonGia int64 `json:"dot_thu_phi_don_gia" gorm:"column:dot_thu_phi_don_gia;not null;check:dot_thu_phi_don_gia>=0"`

	// Hard-deleted on detach so the (period, fee) key can be reused
	DotThuPhiCreatedAt time.Time `json:"dot_thu_phi_created_at" gorm:"column:dot_thu_phi_created_at;not null;autoCreateTime"`
}

func (DotThuPhi) TableName() string { return "dot_thu_phi" }

func (m *DotThuPhi) BeforeCreate(tx *gorm.DB) error {
	if m.DotThuPhiID == uuid.Nil {
		m.DotThuPhiID = uuid.New()
	}
	if m.DotThuPhiDotThuID == uuid.Nil || m.DotThuPhiLoaiPhiID == uuid.Nil {
		return fmt.Errorf("dot_thu_phi_dot_thu_id and dot_thu_phi_loai_phi_id are required")
	}
	return nil
}
