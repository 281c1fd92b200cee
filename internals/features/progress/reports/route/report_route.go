package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportCtl "admon_backend/internals/features/progress/reports/controller"
)

func ReportRoutes(r fiber.Router, db *gorm.DB) {
	ctl := reportCtl.NewReportController(db)

	r.Get("/avances/:id/reporte", ctl.Render) // ?layout=desktop|mobile
}
