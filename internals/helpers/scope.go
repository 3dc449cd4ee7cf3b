package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"quanlychungcu_backend/internals/constants"
)

// BuildingScope is the explicit authorization scope threaded into every
// service call. It is resolved once per request from JWT claims stored in
// c.Locals by the auth middleware; services never read ambient state.
type BuildingScope struct {
	UserID      uuid.UUID
	Role        string
	BuildingIDs []uuid.UUID
}

// ResolveBuildingScope builds the scope from locals set by auth middleware.
func ResolveBuildingScope(c *fiber.Ctx) (BuildingScope, error) {
	raw, _ := c.Locals("user_id").(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		return BuildingScope{}, fiber.NewError(fiber.StatusUnauthorized, "missing or invalid user id")
	}

	role, _ := c.Locals("role").(string)
	if role == "" {
		return BuildingScope{}, fiber.NewError(fiber.StatusUnauthorized, "missing role claim")
	}

	var buildingIDs []uuid.UUID
	if ids, ok := c.Locals("building_ids").([]string); ok {
		for _, s := range ids {
			if id, err := uuid.Parse(s); err == nil {
				buildingIDs = append(buildingIDs, id)
			}
		}
	}

	return BuildingScope{UserID: userID, Role: role, BuildingIDs: buildingIDs}, nil
}

// CanAccessBuilding: admin sees every building; other roles only the ones
// listed in their token.
func (s BuildingScope) CanAccessBuilding(buildingID uuid.UUID) bool {
	if s.Role == constants.RoleAdmin {
		return true
	}
	for _, id := range s.BuildingIDs {
		if id == buildingID {
			return true
		}
	}
	return false
}

// EnsureBuildingAccess returns a 403 fiber error when the scope does not
// cover the building.
func (s BuildingScope) EnsureBuildingAccess(buildingID uuid.UUID) error {
	if !s.CanAccessBuilding(buildingID) {
		return fiber.NewError(fiber.StatusForbidden, "building outside your scope")
	}
	return nil
}

func (s BuildingScope) IsStaff() bool {
	for _, r := range constants.StaffRoles {
		if s.Role == r {
			return true
		}
	}
	return false
}
