// file: internals/features/fees/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/fees/controller"
)

// FeesAdminRoutes: fee catalog + price overrides under /api/a
func FeesAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewFeeController(db)

	fees := r.Group("/fees")
	fees.Get("/", ctl.ListFees)
	fees.Post("/", ctl.CreateFee)
	fees.Patch("/:id", ctl.UpdateFee)
	fees.Delete("/:id", ctl.DeleteFee)

	prices := r.Group("/price-overrides")
	prices.Get("/", ctl.ListOverrides)
	prices.Put("/", ctl.UpsertOverride)
	prices.Delete("/", ctl.DeleteOverride)
}
