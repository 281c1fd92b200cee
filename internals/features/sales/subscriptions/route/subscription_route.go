package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	subscriptionCtl "admon_backend/internals/features/sales/subscriptions/controller"
)

func SubscriptionRoutes(r fiber.Router, db *gorm.DB) {
	ctl := subscriptionCtl.NewSubscriptionController(db)

	g := r.Group("/suscripciones")
	g.Get("/", ctl.List) // ?activa= ?vencidas=true
	g.Get("/:id", ctl.Get)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Post("/:id/toggle", ctl.Toggle) // pause / resume
}
