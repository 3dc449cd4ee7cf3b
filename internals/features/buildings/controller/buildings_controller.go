// file: internals/features/buildings/controller/buildings_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/buildings/dto"
	"quanlychungcu_backend/internals/features/buildings/model"
	"quanlychungcu_backend/internals/features/buildings/service"
	helper "quanlychungcu_backend/internals/helpers"
)

type BuildingsController struct {
	DB     *gorm.DB
	Roster *service.RosterService
}

func NewBuildingsController(db *gorm.DB) *BuildingsController {
	return &BuildingsController{DB: db, Roster: service.NewRosterService(db)}
}

// GET /api/a/buildings - buildings visible to the caller's scope
func (ctl *BuildingsController) ListBuildings(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}

	q := ctl.DB.Model(&model.ToaNha{}).Order("toa_nha_ten ASC")
	if len(scope.BuildingIDs) > 0 {
		q = q.Where("toa_nha_id IN ?", scope.BuildingIDs)
	}

	var rows []model.ToaNha
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.ToaNhaResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToToaNhaResponse(r))
	}
	return helper.JsonOK(c, "buildings", out)
}

// GET /api/a/buildings/:id/households - roster for reading entry / billing
func (ctl *BuildingsController) ListHouseholds(c *fiber.Ctx) error {
	scope, err := helper.ResolveBuildingScope(c)
	if err != nil {
		return err
	}

	buildingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid building id")
	}
	if err := scope.EnsureBuildingAccess(buildingID); err != nil {
		return err
	}

	if _, err := ctl.Roster.GetBuilding(buildingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "building not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	paging := helper.ResolvePaging(c, 50, 200)
	households, total, err := ctl.Roster.ListHouseholdsPage(buildingID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "households", dto.ToHoGiaDinhResponses(households),
		helper.NewPagination(paging.Page, paging.PerPage, total))
}
