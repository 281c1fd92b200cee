package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	clientCtl "admon_backend/internals/features/clients/clients/controller"
)

func ClientRoutes(r fiber.Router, db *gorm.DB) {
	ctl := clientCtl.NewClientController(db)

	g := r.Group("/clientes")
	g.Get("/", ctl.List)         // list + search
	g.Get("/:id", ctl.Get)       // detail with acquired projects
	g.Post("/", ctl.Create)      // create
	g.Patch("/:id", ctl.Update)  // partial update
	g.Put("/:id", ctl.Update)    // same handler, clients send full bodies
	g.Delete("/:id", ctl.Delete) // delete when nothing references it
}
