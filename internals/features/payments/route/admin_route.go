// file: internals/features/payments/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quanlychungcu_backend/internals/constants"
	"quanlychungcu_backend/internals/features/payments/controller"
	"quanlychungcu_backend/internals/middlewares"
	authmw "quanlychungcu_backend/internals/middlewares/auth"
)

// PaymentAdminRoutes registers the ledger endpoints. Only accounting roles
// may touch money; recording also goes through the payment rate limiter.
func PaymentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewPaymentController(db)

	accounting := authmw.OnlyRoles(
		constants.RoleErrorAccountant("sổ thanh toán"),
		constants.AccountingRoles...,
	)

	r.Post("/invoices/:id/payments", accounting, middlewares.PaymentRateLimiter(), ctl.RecordPayment)
	r.Get("/invoices/:id/payments", accounting, ctl.ListPayments)
}
