package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	saleCtl "admon_backend/internals/features/sales/ventas/controller"
)

func SaleRoutes(r fiber.Router, db *gorm.DB) {
	ctl := saleCtl.NewSaleController(db)

	g := r.Group("/ventas")
	g.Get("/", ctl.List)         // newest first
	g.Get("/:id", ctl.Get)       // detail
	g.Post("/", ctl.Create)      // also opens the contract or subscription
	g.Delete("/:id", ctl.Delete) // only while no document is attached
}
