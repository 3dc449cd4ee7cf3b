// file: internals/features/buildings/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/buildings/controller"
)

// BuildingsAdminRoutes: read-only roster endpoints under /api/a
func BuildingsAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewBuildingsController(db)

	g := r.Group("/buildings")
	g.Get("/", ctl.ListBuildings)
	g.Get("/:id/households", ctl.ListHouseholds)
}
