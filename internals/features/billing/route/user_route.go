// file: internals/features/billing/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/features/billing/controller"
)

// BillingUserRoutes exposes the resident read view.
func BillingUserRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewBillingController(db)

	api.Get("/households/:id/invoices", ctl.ListHouseholdInvoices)
}
