// file: internals/features/buildings/model/toa_nha_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ToaNha is one managed apartment building. The resident/CRUD side of the
// registry lives in the main application; this service only reads it.
type ToaNha struct {
	ToaNhaID uuid.UUID `json:"toa_nha_id" gorm:"column:toa_nha_id;type:uuid;primaryKey"`

	ToaNhaTen    string `json:"toa_nha_ten" gorm:"column:toa_nha_ten;type:varchar(100);not null"`
	ToaNhaDiaChi string `json:"toa_nha_dia_chi" gorm:"column:toa_nha_dia_chi;type:varchar(255)"`

	// Building manager (user account in the identity service)
	ToaNhaManagerUserID uuid.UUID `json:"toa_nha_manager_user_id" gorm:"column:toa_nha_manager_user_id;type:uuid;not null;index:idx_toa_nha_manager"`

	ToaNhaCreatedAt time.Time      `json:"toa_nha_created_at" gorm:"column:toa_nha_created_at;not null;autoCreateTime"`
	ToaNhaUpdatedAt time.Time      `json:"toa_nha_updated_at" gorm:"column:toa_nha_updated_at;not null;autoUpdateTime"`
	ToaNhaDeletedAt gorm.DeletedAt `json:"-" gorm:"column:toa_nha_deleted_at;index"`
}

func (ToaNha) TableName() string { return "toa_nha" }

func (t *ToaNha) BeforeCreate(tx *gorm.DB) error {
	if t.ToaNhaID == uuid.Nil {
		t.ToaNhaID = uuid.New()
	}
	return nil
}
