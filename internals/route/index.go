// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	billingroute "quanlychungcu_backend/internals/features/billing/route"
	buildingroute "quanlychungcu_backend/internals/features/buildings/route"
	feeroute "quanlychungcu_backend/internals/features/fees/route"
	paymentroute "quanlychungcu_backend/internals/features/payments/route"
	readingroute "quanlychungcu_backend/internals/features/readings/route"

	"quanlychungcu_backend/internals/constants"
	authmw "quanlychungcu_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== BASE =====================
	log.Println("[INFO] Setting up base routes...")
	BaseRoutes(app, db)

	// ===================== STAFF (/api/a) =====================
	log.Println("[INFO] Setting up STAFF group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authmw.AuthMiddleware(),
		authmw.OnlyRoles(
			constants.RoleErrorStaff("quản lý thu phí"),
			constants.StaffRoles...,
		),
	)

	// ===================== RESIDENT (/api/u) =====================
	log.Println("[INFO] Setting up RESIDENT group (Auth only)...")
	user := app.Group("/api/u",
		authmw.AuthMiddleware(),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting building roster routes...")
	buildingroute.BuildingsAdminRoutes(admin, db)

	log.Println("[INFO] Mounting fee catalog routes...")
	feeroute.FeesAdminRoutes(admin, db)

	log.Println("[INFO] Mounting meter reading routes...")
	readingroute.ReadingsAdminRoutes(admin, db)

	log.Println("[INFO] Mounting billing routes...")
	billingroute.BillingAdminRoutes(admin, db)
	billingroute.BillingUserRoutes(user, db)

	log.Println("[INFO] Mounting payment routes...")
	paymentroute.PaymentAdminRoutes(admin, db)
}
