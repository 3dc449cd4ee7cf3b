// file: internals/features/readings/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/readings/controller"
)

// ReadingsAdminRoutes: meter reading entry under /api/a
func ReadingsAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewReadingController(db)

	g := r.Group("/readings")
	g.Get("/prepare", ctl.PrepareInput)
	g.Post("/save", ctl.SaveAll)
	g.Get("/stats", ctl.GetStats)
}
