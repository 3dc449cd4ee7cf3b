// file: internals/features/payments/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"quanlychungcu_backend/internals/features/payments/model"
)

type RecordPaymentDTO struct {
	ThanhToanSoTien     int64                     `json:"thanh_toan_so_tien" validate:"required,gt=0"`
	ThanhToanPhuongThuc model.ThanhToanPhuongThuc `json:"thanh_toan_phuong_thuc" validate:"omitempty,oneof=cash bank_transfer vnpay other"`
	ThanhToanNgay       *time.Time                `json:"thanh_toan_ngay"`
	ThanhToanMeta       datatypes.JSONMap         `json:"thanh_toan_meta"`
}

type ThanhToanResponse struct {
	ThanhToanID         uuid.UUID                 `json:"thanh_toan_id"`
	ThanhToanHoaDonID   uuid.UUID                 `json:"thanh_toan_hoa_don_id"`
	ThanhToanSoTien     int64                     `json:"thanh_toan_so_tien"`
	ThanhToanPhuongThuc model.ThanhToanPhuongThuc `json:"thanh_toan_phuong_thuc"`
	ThanhToanNgay       time.Time                 `json:"thanh_toan_ngay"`
	ThanhToanNguoiGhiID *uuid.UUID                `json:"thanh_toan_nguoi_ghi_id,omitempty"`
	ThanhToanMeta       datatypes.JSONMap         `json:"thanh_toan_meta,omitempty"`
}

func ToThanhToanResponse(m model.ThanhToan) ThanhToanResponse {
	return ThanhToanResponse{
		ThanhToanID:         m.ThanhToanID,
		ThanhToanHoaDonID:   m.ThanhToanHoaDonID,
		ThanhToanSoTien:     m.ThanhToanSoTien,
		ThanhToanPhuongThuc: m.ThanhToanPhuongThuc,
		ThanhToanNgay:       m.ThanhToanNgay,
		ThanhToanNguoiGhiID: m.ThanhToanNguoiGhiID,
		ThanhToanMeta:       m.ThanhToanMeta,
	}
}
