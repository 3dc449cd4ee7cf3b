// file: internals/features/payments/controller/payment_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	billingmodel "quanlychungcu_backend/internals/features/billing/model"
	"quanlychungcu_backend/internals/features/payments/dto"
	"quanlychungcu_backend/internals/features/payments/service"
	helper "quanlychungcu_backend/internals/helpers"
)

var validate = validator.New()

type PaymentController struct {
	DB  *gorm.DB
	Svc *service.PaymentService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, Svc: service.NewPaymentService(db)}
}

// loadInvoiceWithAccess fetches the invoice and checks that the caller's
// scope covers the building the invoice's period belongs to.
func (ctl *PaymentController) loadInvoiceWithAccess(c *fiber.Ctx) (billingmodel.HoaDon, error) {
	var inv billingmodel.HoaDon

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return inv, helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return inv, err
	}

	if err := ctl.DB.First(&inv, "hoa_don_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inv, helper.JsonError(c, fiber.StatusNotFound, "invoice not found")
		}
		return inv, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var period billingmodel.DotThu
	if err := ctl.DB.Unscoped().First(&period, "dot_thu_id = ?", inv.HoaDonDotThuID).Error; err != nil {
		return inv, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := scope.EnsureBuildingAccess(period.DotThuToaNhaID); err != nil {
		return inv, err
	}
	return inv, nil
}

// POST /api/a/invoices/:id/payments
func (ctl *PaymentController) RecordPayment(c *fiber.Ctx) error {
	inv, err := ctl.loadInvoiceWithAccess(c)
	if err != nil {
		return err
	}
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}

	var in dto.RecordPaymentDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}

	recordedBy := scope.UserID
	entry, updated, err := ctl.Svc.RecordPayment(service.RecordPaymentInput{
		HoaDonID:   inv.HoaDonID,
		SoTien:     in.ThanhToanSoTien,
		PhuongThuc: in.ThanhToanPhuongThuc,
		Ngay:       in.ThanhToanNgay,
		NguoiGhiID: &recordedBy,
		Meta:       in.ThanhToanMeta,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrOverpayment):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "amount exceeds the invoice remainder")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return helper.JsonCreated(c, "payment recorded", fiber.Map{
		"thanh_toan": dto.ToThanhToanResponse(entry),
		"hoa_don": fiber.Map{
			"hoa_don_id":            updated.HoaDonID,
			"hoa_don_tong_tien":     updated.HoaDonTongTien,
			"hoa_don_da_thanh_toan": updated.HoaDonDaThanhToan,
			"hoa_don_trang_thai":    updated.HoaDonTrangThai,
		},
	})
}

// GET /api/a/invoices/:id/payments
func (ctl *PaymentController) ListPayments(c *fiber.Ctx) error {
	inv, err := ctl.loadInvoiceWithAccess(c)
	if err != nil {
		return err
	}

	rows, err := ctl.Svc.ListPayments(inv.HoaDonID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	out := make([]dto.ThanhToanResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToThanhToanResponse(r))
	}
	return helper.JsonOK(c, "invoice payments", out)
}
