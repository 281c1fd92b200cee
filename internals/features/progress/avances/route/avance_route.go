package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	avanceCtl "admon_backend/internals/features/progress/avances/controller"
)

func AvanceRoutes(r fiber.Router, db *gorm.DB) {
	ctl := avanceCtl.NewAvanceController(db)

	g := r.Group("/avances")
	g.Post("/recalcular", ctl.RecalculateAll) // fix counters of every record
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)

	f := g.Group("/:id/caracteristicas")
	f.Post("/", ctl.AddFeature)
	f.Patch("/:featureId/toggle", ctl.ToggleFeature)
	f.Delete("/:featureId", ctl.DeleteFeature)
}
