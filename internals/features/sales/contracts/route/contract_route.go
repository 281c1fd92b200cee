package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	contractCtl "admon_backend/internals/features/sales/contracts/controller"
)

func ContractRoutes(r fiber.Router, db *gorm.DB) {
	ctl := contractCtl.NewContractController(db)

	g := r.Group("/contratos")
	g.Get("/", ctl.List) // with paid/remaining and stats
	g.Get("/:id", ctl.Get)
	g.Patch("/:id/proxima-fecha", ctl.UpdateDueDate)
	g.Post("/:id/cancelar", ctl.Cancel)
}
