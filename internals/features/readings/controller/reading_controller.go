// file: internals/features/readings/controller/reading_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/readings/service"
	helper "quanlychungcu_backend/internals/helpers"
)

var validate = validator.New()

type ReadingController struct {
	DB  *gorm.DB
	Svc *service.ReadingService
}

func NewReadingController(db *gorm.DB) *ReadingController {
	return &ReadingController{DB: db, Svc: service.NewReadingService(db)}
}

// query params shared by prepare/stats
type monthQuery struct {
	Thang     int       `query:"thang" validate:"required,min=1,max=12"`
	Nam       int       `query:"nam" validate:"required,min=2000,max=2100"`
	ToaNhaID  uuid.UUID `query:"toa_nha_id" validate:"required"`
	LoaiPhiID uuid.UUID `query:"loai_phi_id" validate:"required"`
}

func parseMonthQuery(c *fiber.Ctx) (monthQuery, error) {
	var q monthQuery
	if err := c.QueryParser(&q); err != nil {
		return q, err
	}
	return q, validate.Struct(q)
}

// GET /api/a/readings/prepare?thang=&nam=&toa_nha_id=&loai_phi_id=
func (ctl *ReadingController) PrepareInput(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}
	q, err := parseMonthQuery(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query: thang, nam, toa_nha_id, loai_phi_id are required")
	}
	if err := scope.EnsureBuildingAccess(q.ToaNhaID); err != nil {
		return err
	}

	rows, err := ctl.Svc.PrepareInput(q.Thang, q.Nam, q.ToaNhaID, q.LoaiPhiID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "reading input rows", rows)
}

// POST /api/a/readings/save
func (ctl *ReadingController) SaveAll(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}

	var in service.SaveAllInput
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := scope.EnsureBuildingAccess(in.ToaNhaID); err != nil {
		return err
	}

	saved, err := ctl.Svc.SaveAll(in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMonth):
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrReadingDecreased):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrHouseholdNotInBuilding):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "building or fee type not found")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.JsonOK(c, "readings saved", fiber.Map{"saved": saved})
}

// GET /api/a/readings/stats?thang=&nam=&toa_nha_id=&loai_phi_id=
func (ctl *ReadingController) GetStats(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}
	q, err := parseMonthQuery(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query: thang, nam, toa_nha_id, loai_phi_id are required")
	}
	if err := scope.EnsureBuildingAccess(q.ToaNhaID); err != nil {
		return err
	}

	stats, err := ctl.Svc.GetStats(q.Thang, q.Nam, q.ToaNhaID, q.LoaiPhiID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "reading stats", stats)
}
