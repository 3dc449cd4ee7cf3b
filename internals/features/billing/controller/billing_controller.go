// file: internals/features/billing/controller/billing_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/billing/dto"
	"quanlychungcu_backend/internals/features/billing/model"
	"quanlychungcu_backend/internals/features/billing/service"
	helper "quanlychungcu_backend/internals/helpers"
)

var validate = validator.New()

type BillingController struct {
	DB         *gorm.DB
	Periods    *service.PeriodService
	Calculator *service.InvoiceCalculator
	Statements *service.StatementBuilder
}

func NewBillingController(db *gorm.DB) *BillingController {
	return &BillingController{
		DB:         db,
		Periods:    service.NewPeriodService(db),
		Calculator: service.NewInvoiceCalculator(db),
		Statements: service.NewStatementBuilder(db),
	}
}

// loadPeriodWithAccess fetches the period and checks the caller's building
// scope against it. Shared by every /:id handler below.
func (ctl *BillingController) loadPeriodWithAccess(c *fiber.Ctx) (model.DotThu, error) {
	var period model.DotThu

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return period, helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return period, err
	}

	period, err = ctl.Periods.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return period, helper.JsonError(c, fiber.StatusNotFound, "collection period not found")
		}
		return period, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := scope.EnsureBuildingAccess(period.DotThuToaNhaID); err != nil {
		return period, err
	}
	return period, nil
}

// =======================================================
// COLLECTION PERIODS (đợt thu)
// =======================================================

// GET /api/a/collection-periods?building_id=...
func (ctl *BillingController) ListPeriods(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}
	buildingID, err := uuid.Parse(c.Query("building_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "building_id is required")
	}
	if err := scope.EnsureBuildingAccess(buildingID); err != nil {
		return err
	}

	rows, err := ctl.Periods.ListByBuilding(buildingID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	out := make([]dto.DotThuResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToDotThuResponse(r))
	}
	return helper.JsonOK(c, "collection periods", out)
}

// GET /api/a/collection-periods/:id
func (ctl *BillingController) GetPeriod(c *fiber.Ctx) error {
	period, err := ctl.loadPeriodWithAccess(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "collection period", dto.ToDotThuResponse(period))
}

// POST /api/a/collection-periods
func (ctl *BillingController) CreatePeriod(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}

	var in dto.DotThuCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := scope.EnsureBuildingAccess(in.DotThuToaNhaID); err != nil {
		return err
	}

	m := in.ToModel()
	if err := ctl.Periods.Create(&m); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "collection period created", dto.ToDotThuResponse(m))
}

// PATCH /api/a/collection-periods/:id
func (ctl *BillingController) UpdatePeriod(c *fiber.Ctx) error {
	period, err := ctl.loadPeriodWithAccess(c)
	if err != nil {
		return err
	}

	var in dto.DotThuUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}

	in.Apply(&period)
	if err := ctl.Periods.Save(&period); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "collection period updated", dto.ToDotThuResponse(period))
}

// DELETE /api/a/collection-periods/:id
func (ctl *BillingController) DeletePeriod(c *fiber.Ctx) error {
	period, err := ctl.loadPeriodWithAccess(c)
	if err != nil {
		return err
	}

	if err := ctl.Periods.Delete(period.DotThuID); err != nil {
		if errors.Is(err, service.ErrPeriodHasInvoices) {
			return helper.JsonError(c, fiber.StatusConflict, "period has invoices and cannot be deleted")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "collection period deleted", fiber.Map{"dot_thu_id": period.DotThuID})
}

// =======================================================
// PERIOD FEE CONFIG
// =======================================================

// GET /api/a/collection-periods/:id/fees
func (ctl *BillingController) ListPeriodFees(c *fiber.Ctx) error {
	period, err := ctl.loadPeriodWithAccess(c)
	if err != nil {
		return err
	}

	rows, err := ctl.Periods.ListFeeConfigs(period.DotThuID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	out := make([]dto.DotThuPhiResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToDotThuPhiResponse(r, false))
	}
	return helper.JsonOK(c, "period fees", out)
}

// POST /api/a/collection-periods/:id/fees
func (ctl *BillingController) AttachFee(c *fiber.Ctx) error {
	period, err := ctl.loadPeriodWithAccess(c)
	if err != nil {
		return err
	}

	var in dto.AttachFeeDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}

	cfg, needsRecalc, err := ctl.Periods.AttachFee(period.DotThuID, in.LoaiPhiID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeeAlreadyAttached):
			return helper.JsonError(c, fiber.StatusConflict, "fee type already attached to this period")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "fee type not found")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.JsonCreated(c, "fee attached", dto.ToDotThuPhiResponse(cfg, needsRecalc))
}

// DELETE /api/a/collection-periods/:id/fees/:feeId
func (ctl *BillingController) DetachFee(c *fiber.Ctx) error {
	period, err := ctl.loadPeriodWithAccess(c)
	if err != nil {
		return err
	}
	feeID, err := uuid.Parse(c.Params("feeId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid fee id")
	}

	needsRecalc, err := ctl.Periods.DetachFee(period.DotThuID, feeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeeNotAttached):
			return helper.JsonError(c, fiber.StatusNotFound, "fee type is not attached to this period")
		case errors.Is(err, service.ErrFeeHasPayments):
			return helper.JsonError(c, fiber.StatusConflict, "period already has recorded payments; fee cannot be detached")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.JsonDeleted(c, "fee detached", fiber.Map{
		"dot_thu_id":          period.DotThuID,
		"loai_phi_id":         feeID,
		"needs_recalculation": needsRecalc,
	})
}

// =======================================================
// CALCULATION + STATEMENT
// =======================================================

// POST /api/a/collection-periods/:id/calculate
func (ctl *BillingController) Calculate(c *fiber.Ctx) error {
	period, err := ctl.loadPeriodWithAccess(c)
	if err != nil {
		return err
	}

	summary, err := ctl.Calculator.CalculateInvoices(period.DotThuID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPeriodNotConfigured):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "period target month/year is not configured")
		case errors.Is(err, service.ErrNoFeesConfigured):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "period has no fee types attached")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.JsonOK(c, "invoices calculated", summary)
}

// GET /api/a/collection-periods/:id/statement
func (ctl *BillingController) GetStatement(c *fiber.Ctx) error {
	period, err := ctl.loadPeriodWithAccess(c)
	if err != nil {
		return err
	}

	st, err := ctl.Statements.GetStatement(period.DotThuID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "period statement", st)
}

// =======================================================
// RESIDENT VIEW
// =======================================================

// GET /api/u/households/:id/invoices
// A resident sees only the household linked to their own account.
func (ctl *BillingController) ListHouseholdInvoices(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}
	hoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var ho struct {
		HoGiaDinhToaNhaID    uuid.UUID  `gorm:"column:ho_gia_dinh_toa_nha_id"`
		HoGiaDinhChuHoUserID *uuid.UUID `gorm:"column:ho_gia_dinh_chu_ho_user_id"`
	}
	if err := ctl.DB.Table("ho_gia_dinh").
		Where("ho_gia_dinh_id = ? AND ho_gia_dinh_deleted_at IS NULL", hoID).
		Take(&ho).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "household not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if !scope.IsStaff() {
		if ho.HoGiaDinhChuHoUserID == nil || *ho.HoGiaDinhChuHoUserID != scope.UserID {
			return helper.JsonError(c, fiber.StatusForbidden, "household does not belong to this account")
		}
	} else if err := scope.EnsureBuildingAccess(ho.HoGiaDinhToaNhaID); err != nil {
		return err
	}

	var invoices []model.HoaDon
	if err := ctl.DB.
		Where("hoa_don_ho_gia_dinh_id = ?", hoID).
		Order("hoa_don_created_at DESC").
		Find(&invoices).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// period names for display
	periodName := map[uuid.UUID]string{}
	if len(invoices) > 0 {
		ids := make([]uuid.UUID, 0, len(invoices))
		for _, inv := range invoices {
			ids = append(ids, inv.HoaDonDotThuID)
		}
		var periods []model.DotThu
		if err := ctl.DB.Unscoped().Where("dot_thu_id IN ?", ids).Find(&periods).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		for _, p := range periods {
			periodName[p.DotThuID] = p.DotThuTen
		}
	}

	out := make([]dto.HoaDonResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, dto.ToHoaDonResponse(inv, periodName[inv.HoaDonDotThuID]))
	}
	return helper.JsonOK(c, "household invoices", out)
}
