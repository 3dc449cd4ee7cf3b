// file: internals/features/billing/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/billing/controller"
)

// BillingAdminRoutes registers the collection-period lifecycle under the
// staff group: CRUD, fee attach/detach, calculation, statement.
func BillingAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewBillingController(db)

	periods := api.Group("/collection-periods")
	periods.Get("/", ctl.ListPeriods)
	periods.Post("/", ctl.CreatePeriod)
	periods.Get("/:id", ctl.GetPeriod)
	periods.Patch("/:id", ctl.UpdatePeriod)
	periods.Delete("/:id", ctl.DeletePeriod)

	periods.Get("/:id/fees", ctl.ListPeriodFees)
	periods.Post("/:id/fees", ctl.AttachFee)
	periods.Delete("/:id/fees/:feeId", ctl.DetachFee)

	periods.Post("/:id/calculate", ctl.Calculate)
	periods.Get("/:id/statement", ctl.GetStatement)
}
