package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentCtl "admon_backend/internals/features/finance/payments/controller"
)

func PaymentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentCtl.NewPaymentController(db)

	g := r.Group("/pagos")
	g.Get("/", ctl.List)    // list with filters
	g.Get("/:id", ctl.Get)  // detail
	g.Post("/", ctl.Create) // record a payment
}
