package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	projectCtl "admon_backend/internals/features/clients/projects/controller"
)

func ProjectRoutes(r fiber.Router, db *gorm.DB) {
	ctl := projectCtl.NewProjectController(db)

	g := r.Group("/proyectos")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Get("/:id/clientes", ctl.Clients) // who acquired it, and how
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Put("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}
