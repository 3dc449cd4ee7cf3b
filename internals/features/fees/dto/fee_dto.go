// file: internals/features/fees/dto/fee_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"quanlychungcu_backend/internals/features/fees/model"
)

////////////////////////////////////////////////////////////////////////////////
// LOAI PHI - DTO
////////////////////////////////////////////////////////////////////////////////

type LoaiPhiCreateDTO struct {
	LoaiPhiTen       string  `json:"loai_phi_ten" validate:"required,max=100"`
	LoaiPhiDonViTinh string  `json:"loai_phi_don_vi_tinh" validate:"max=50"`
	LoaiPhiCachTinh  string  `json:"loai_phi_cach_tinh" validate:"required,oneof=fixed consumption"`
	LoaiPhiBatBuoc   *bool   `json:"loai_phi_bat_buoc,omitempty"`
	LoaiPhiDonGia    int64   `json:"loai_phi_don_gia" validate:"min=0"`
	LoaiPhiMoTa      *string `json:"loai_phi_mo_ta,omitempty" validate:"omitempty,max=255"`
}

type LoaiPhiUpdateDTO struct {
	LoaiPhiTen          *string `json:"loai_phi_ten,omitempty" validate:"omitempty,max=100"`
	LoaiPhiDonViTinh    *string `json:"loai_phi_don_vi_tinh,omitempty" validate:"omitempty,max=50"`
	LoaiPhiBatBuoc      *bool   `json:"loai_phi_bat_buoc,omitempty"`
	LoaiPhiDonGia       *int64  `json:"loai_phi_don_gia,omitempty" validate:"omitempty,min=0"`
	LoaiPhiMoTa         *string `json:"loai_phi_mo_ta,omitempty" validate:"omitempty,max=255"`
	LoaiPhiDangHoatDong *bool   `json:"loai_phi_dang_hoat_dong,omitempty"`
	// LoaiPhiCachTinh is intentionally not updatable: switching a fee between
	// fixed and consumption after invoices reference it would change history.
}

type LoaiPhiResponse struct {
	LoaiPhiID           uuid.UUID `json:"loai_phi_id"`
	LoaiPhiTen          string    `json:"loai_phi_ten"`
	LoaiPhiDonViTinh    string    `json:"loai_phi_don_vi_tinh"`
	LoaiPhiCachTinh     string    `json:"loai_phi_cach_tinh"`
	LoaiPhiBatBuoc      bool      `json:"loai_phi_bat_buoc"`
	LoaiPhiDonGia       int64     `json:"loai_phi_don_gia"`
	LoaiPhiMoTa         *string   `json:"loai_phi_mo_ta,omitempty"`
	LoaiPhiDangHoatDong bool      `json:"loai_phi_dang_hoat_dong"`
	LoaiPhiCreatedAt    time.Time `json:"loai_phi_created_at"`
}

func (in LoaiPhiCreateDTO) ToModel(managerUserID uuid.UUID) model.LoaiPhi {
	batBuoc := true
	if in.LoaiPhiBatBuoc != nil {
		batBuoc = *in.LoaiPhiBatBuoc
	}
	return model.LoaiPhi{
		LoaiPhiTen:           strings.TrimSpace(in.LoaiPhiTen),
		LoaiPhiDonViTinh:     strings.TrimSpace(in.LoaiPhiDonViTinh),
		LoaiPhiCachTinh:      model.LoaiPhiCachTinh(in.LoaiPhiCachTinh),
		LoaiPhiBatBuoc:       batBuoc,
		LoaiPhiDonGia:        in.LoaiPhiDonGia,
		LoaiPhiMoTa:          in.LoaiPhiMoTa,
		LoaiPhiDangHoatDong:  true,
		LoaiPhiManagerUserID: managerUserID,
	}
}

func (in LoaiPhiUpdateDTO) Apply(m *model.LoaiPhi) {
	if in.LoaiPhiTen != nil {
		m.LoaiPhiTen = strings.TrimSpace(*in.LoaiPhiTen)
	}
	if in.LoaiPhiDonViTinh != nil {
		m.LoaiPhiDonViTinh = strings.TrimSpace(*in.LoaiPhiDonViTinh)
	}
	if in.LoaiPhiBatBuoc != nil {
		m.LoaiPhiBatBuoc = *in.LoaiPhiBatBuoc
	}
	if in.LoaiPhiDonGia != nil {
		m.LoaiPhiDonGia = *in.LoaiPhiDonGia
	}
	if in.LoaiPhiMoTa != nil {
		m.LoaiPhiMoTa = in.LoaiPhiMoTa
	}
	if in.LoaiPhiDangHoatDong != nil {
		m.LoaiPhiDangHoatDong = *in.LoaiPhiDangHoatDong
	}
}

func ToLoaiPhiResponse(m model.LoaiPhi) LoaiPhiResponse {
	return LoaiPhiResponse{
		LoaiPhiID:           m.LoaiPhiID,
		LoaiPhiTen:          m.LoaiPhiTen,
		LoaiPhiDonViTinh:    m.LoaiPhiDonViTinh,
		LoaiPhiCachTinh:     string(m.LoaiPhiCachTinh),
		LoaiPhiBatBuoc:      m.LoaiPhiBatBuoc,
		LoaiPhiDonGia:       m.LoaiPhiDonGia,
		LoaiPhiMoTa:         m.LoaiPhiMoTa,
		LoaiPhiDangHoatDong: m.LoaiPhiDangHoatDong,
		LoaiPhiCreatedAt:    m.LoaiPhiCreatedAt,
	}
}

////////////////////////////////////////////////////////////////////////////////
// BANG GIA - DTO
////////////////////////////////////////////////////////////////////////////////

type BangGiaUpsertDTO struct {
	BangGiaToaNhaID  uuid.UUID `json:"bang_gia_toa_nha_id" validate:"required"`
	BangGiaLoaiPhiID uuid.UUID `json:"bang_gia_loai_phi_id" validate:"required"`
	BangGiaDonGia    int64     `json:"bang_gia_don_gia" validate:"min=0"`
}

type BangGiaResponse struct {
	BangGiaID        uuid.UUID `json:"bang_gia_id"`
	BangGiaToaNhaID  uuid.UUID `json:"bang_gia_toa_nha_id"`
	BangGiaLoaiPhiID uuid.UUID `json:"bang_gia_loai_phi_id"`
	BangGiaDonGia    int64     `json:"bang_gia_don_gia"`
	BangGiaUpdatedAt time.Time `json:"bang_gia_updated_at"`
}

func ToBangGiaResponse(m model.BangGiaDichVu) BangGiaResponse {
	return BangGiaResponse{
		BangGiaID:        m.BangGiaID,
		BangGiaToaNhaID:  m.BangGiaToaNhaID,
		BangGiaLoaiPhiID: m.BangGiaLoaiPhiID,
		BangGiaDonGia:    m.BangGiaDonGia,
		BangGiaUpdatedAt: m.BangGiaUpdatedAt,
	}
}
