// file: internals/features/fees/controller/fee_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/fees/dto"
	"quanlychungcu_backend/internals/features/fees/service"
	helper "quanlychungcu_backend/internals/helpers"
)

var validate = validator.New()

type FeeController struct {
	DB  *gorm.DB
	Svc *service.FeeService
}

func NewFeeController(db *gorm.DB) *FeeController {
	return &FeeController{DB: db, Svc: service.NewFeeService(db)}
}

// =======================================================
// FEE TYPES (loại phí)
// =======================================================

// GET /api/a/fees
func (ctl *FeeController) ListFees(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}
	onlyActive := c.QueryBool("active", false)

	rows, err := ctl.Svc.List(scope.UserID, onlyActive)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	out := make([]dto.LoaiPhiResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToLoaiPhiResponse(r))
	}
	return helper.JsonOK(c, "fee types", out)
}

// POST /api/a/fees
func (ctl *FeeController) CreateFee(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}

	var in dto.LoaiPhiCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}

	m := in.ToModel(scope.UserID)
	if err := ctl.Svc.Create(&m); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "fee type created", dto.ToLoaiPhiResponse(m))
}

// PATCH /api/a/fees/:id
func (ctl *FeeController) UpdateFee(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var in dto.LoaiPhiUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctl.Svc.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "fee type not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	in.Apply(&m)
	if err := ctl.Svc.Save(&m); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "fee type updated", dto.ToLoaiPhiResponse(m))
}

// DELETE /api/a/fees/:id
func (ctl *FeeController) DeleteFee(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := ctl.Svc.Delete(id); err != nil {
		if errors.Is(err, service.ErrFeeReferenced) {
			return helper.JsonError(c, fiber.StatusConflict, "fee type is used by billing records and cannot be deleted")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "fee type deleted", fiber.Map{"loai_phi_id": id})
}

// =======================================================
// PRICE OVERRIDES (bảng giá theo tòa nhà)
// =======================================================

// GET /api/a/price-overrides?building_id=...
func (ctl *FeeController) ListOverrides(c *fiber.Ctx) error {
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

	rows, err := ctl.Svc.ListOverrides(buildingID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	out := make([]dto.BangGiaResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToBangGiaResponse(r))
	}
	return helper.JsonOK(c, "price overrides", out)
}

// PUT /api/a/price-overrides
func (ctl *FeeController) UpsertOverride(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}

	var in dto.BangGiaUpsertDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := scope.EnsureBuildingAccess(in.BangGiaToaNhaID); err != nil {
		return err
	}

	row, err := ctl.Svc.UpsertOverride(in.BangGiaToaNhaID, in.BangGiaLoaiPhiID, in.BangGiaDonGia)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "price override saved", dto.ToBangGiaResponse(row))
}

// DELETE /api/a/price-overrides?building_id=...&fee_id=...
func (ctl *FeeController) DeleteOverride(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}

	buildingID, err := uuid.Parse(c.Query("building_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "building_id is required")
	}
	feeID, err := uuid.Parse(c.Query("fee_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "fee_id is required")
	}
	if err := scope.EnsureBuildingAccess(buildingID); err != nil {
		return err
	}

	if err := ctl.Svc.DeleteOverride(buildingID, feeID); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "price override deleted", nil)
}
