// file: internals/features/billing/dto/billing_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"quanlychungcu_backend/internals/features/billing/model"
)

// =======================================================
// COLLECTION PERIODS (đợt thu)
// =======================================================

type DotThuCreateDTO struct {
	DotThuTen      string           `json:"dot_thu_ten" validate:"required,min=3,max=150"`
	DotThuToaNhaID uuid.UUID        `json:"dot_thu_toa_nha_id" validate:"required"`
	DotThuLoai     model.DotThuLoai `json:"dot_thu_loai" validate:"omitempty,oneof=dinh_ky dong_gop"`

	DotThuBatDau  *time.Time `json:"dot_thu_bat_dau"`
	DotThuKetThuc *time.Time `json:"dot_thu_ket_thuc"`

	DotThuThang *int `json:"dot_thu_thang" validate:"omitempty,min=1,max=12"`
	DotThuNam   *int `json:"dot_thu_nam" validate:"omitempty,min=2000,max=2100"`
}

func (in DotThuCreateDTO) ToModel() model.DotThu {
	loai := in.DotThuLoai
	if loai == "" {
		loai = model.DotThuDinhKy
	}
	return model.DotThu{
		DotThuTen:      in.DotThuTen,
		DotThuToaNhaID: in.DotThuToaNhaID,
		DotThuLoai:     loai,
		DotThuBatDau:   in.DotThuBatDau,
		DotThuKetThuc:  in.DotThuKetThuc,
		DotThuThang:    in.DotThuThang,
		DotThuNam:      in.DotThuNam,
	}
}

type DotThuUpdateDTO struct {
	DotThuTen *string `json:"dot_thu_ten" validate:"omitempty,min=3,max=150"`

	DotThuBatDau  *time.Time `json:"dot_thu_bat_dau"`
	DotThuKetThuc *time.Time `json:"dot_thu_ket_thuc"`

	DotThuThang *int `json:"dot_thu_thang" validate:"omitempty,min=1,max=12"`
	DotThuNam   *int `json:"dot_thu_nam" validate:"omitempty,min=2000,max=2100"`
}

func (in DotThuUpdateDTO) Apply(m *model.DotThu) {
	if in.DotThuTen != nil {
		m.DotThuTen = *in.DotThuTen
	}
	if in.DotThuBatDau != nil {
		m.DotThuBatDau = in.DotThuBatDau
	}
	if in.DotThuKetThuc != nil {
		m.DotThuKetThuc = in.DotThuKetThuc
	}
	if in.DotThuThang != nil {
		m.DotThuThang = in.DotThuThang
	}
	if in.DotThuNam != nil {
		m.DotThuNam = in.DotThuNam
	}
}

type DotThuResponse struct {
	DotThuID       uuid.UUID        `json:"dot_thu_id"`
	DotThuTen      string           `json:"dot_thu_ten"`
	DotThuToaNhaID uuid.UUID        `json:"dot_thu_toa_nha_id"`
	DotThuLoai     model.DotThuLoai `json:"dot_thu_loai"`
	DotThuBatDau   *time.Time       `json:"dot_thu_bat_dau,omitempty"`
	DotThuKetThuc  *time.Time       `json:"dot_thu_ket_thuc,omitempty"`
	DotThuThang    *int             `json:"dot_thu_thang,omitempty"`
	DotThuNam      *int             `json:"dot_thu_nam,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

func ToDotThuResponse(m model.DotThu) DotThuResponse {
	return DotThuResponse{
		DotThuID:       m.DotThuID,
		DotThuTen:      m.DotThuTen,
		DotThuToaNhaID: m.DotThuToaNhaID,
		DotThuLoai:     m.DotThuLoai,
		DotThuBatDau:   m.DotThuBatDau,
		DotThuKetThuc:  m.DotThuKetThuc,
		DotThuThang:    m.DotThuThang,
		DotThuNam:      m.DotThuNam,
		CreatedAt:      m.DotThuCreatedAt,
	}
}

// =======================================================
// PERIOD FEE CONFIG (đợt thu × loại phí)
// =======================================================

type AttachFeeDTO struct {
	LoaiPhiID uuid.UUID `json:"loai_phi_id" validate:"required"`
}

type DotThuPhiResponse struct {
	DotThuPhiID        uuid.UUID `json:"dot_thu_phi_id"`
	DotThuPhiDotThuID  uuid.UUID `json:"dot_thu_phi_dot_thu_id"`
	DotThuPhiLoaiPhiID uuid.UUID `json:"dot_thu_phi_loai_phi_id"`
	DotThuPhiDonGia    int64     `json:"dot_thu_phi_don_gia"`
	CreatedAt          time.Time `json:"created_at"`

	// calculation is stale when true
	NeedsRecalculation bool `json:"needs_recalculation,omitempty"`
}

func ToDotThuPhiResponse(m model.DotThuPhi, needsRecalc bool) DotThuPhiResponse {
	return DotThuPhiResponse{
		DotThuPhiID:        m.DotThuPhiID,
		DotThuPhiDotThuID:  m.DotThuPhiDotThuID,
		DotThuPhiLoaiPhiID: m.DotThuPhiLoaiPhiID,
		DotThuPhiDonGia:    m.DotThuPhiDonGia,
		CreatedAt:          m.DotThuPhiCreatedAt,
		NeedsRecalculation: needsRecalc,
	}
}

// =======================================================
// INVOICES (resident view)
// =======================================================

type HoaDonResponse struct {
	HoaDonID          uuid.UUID             `json:"hoa_don_id"`
	HoaDonDotThuID    uuid.UUID             `json:"hoa_don_dot_thu_id"`
	DotThuTen         string                `json:"dot_thu_ten,omitempty"`
	HoaDonTongTien    int64                 `json:"hoa_don_tong_tien"`
	HoaDonDaThanhToan int64                 `json:"hoa_don_da_thanh_toan"`
	HoaDonTrangThai   model.HoaDonTrangThai `json:"hoa_don_trang_thai"`
	HoaDonTinhLuc     *time.Time            `json:"hoa_don_tinh_luc,omitempty"`
}

func ToHoaDonResponse(m model.HoaDon, periodName string) HoaDonResponse {
	return HoaDonResponse{
		HoaDonID:          m.HoaDonID,
		HoaDonDotThuID:    m.HoaDonDotThuID,
		DotThuTen:         periodName,
		HoaDonTongTien:    m.HoaDonTongTien,
		HoaDonDaThanhToan: m.HoaDonDaThanhToan,
		HoaDonTrangThai:   m.HoaDonTrangThai,
		HoaDonTinhLuc:     m.HoaDonTinhLuc,
	}
}
