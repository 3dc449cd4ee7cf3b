// file: internals/features/buildings/dto/buildings_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"quanlychungcu_backend/internals/features/buildings/model"
)

type ToaNhaResponse struct {
	ToaNhaID     uuid.UUID `json:"toa_nha_id"`
	ToaNhaTen    string    `json:"toa_nha_ten"`
	ToaNhaDiaChi string    `json:"toa_nha_dia_chi"`
	CreatedAt    time.Time `json:"created_at"`
}

type HoGiaDinhResponse struct {
	HoGiaDinhID       uuid.UUID `json:"ho_gia_dinh_id"`
	HoGiaDinhToaNhaID uuid.UUID `json:"ho_gia_dinh_toa_nha_id"`
	HoGiaDinhMa       string    `json:"ho_gia_dinh_ma"`
	HoGiaDinhTenChuHo string    `json:"ho_gia_dinh_ten_chu_ho"`
	HoGiaDinhSoCanHo  string    `json:"ho_gia_dinh_so_can_ho"`
}

func ToToaNhaResponse(m model.ToaNha) ToaNhaResponse {
	return ToaNhaResponse{
		ToaNhaID:     m.ToaNhaID,
		ToaNhaTen:    m.ToaNhaTen,
		ToaNhaDiaChi: m.ToaNhaDiaChi,
		CreatedAt:    m.ToaNhaCreatedAt,
	}
}

func ToHoGiaDinhResponse(m model.HoGiaDinh) HoGiaDinhResponse {
	return HoGiaDinhResponse{
		HoGiaDinhID:       m.HoGiaDinhID,
		HoGiaDinhToaNhaID: m.HoGiaDinhToaNhaID,
		HoGiaDinhMa:       m.HoGiaDinhMa,
		HoGiaDinhTenChuHo: m.HoGiaDinhTenChuHo,
		HoGiaDinhSoCanHo:  m.HoGiaDinhSoCanHo,
	}
}

func ToHoGiaDinhResponses(ms []model.HoGiaDinh) []HoGiaDinhResponse {
	out := make([]HoGiaDinhResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToHoGiaDinhResponse(m))
	}
	return out
}
