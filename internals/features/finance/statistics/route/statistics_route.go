package route

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	statsCtl "admon_backend/internals/features/finance/statistics/controller"
	"admon_backend/internals/features/finance/statistics/service"
)

func StatisticsRoutes(r fiber.Router, db *gorm.DB, loc *time.Location) {
	ctl := statsCtl.NewStatisticsController(service.NewService(db, loc))

	g := r.Group("/estadisticas")
	g.Get("/", ctl.Totals)
	g.Get("/ingresos-mensuales", ctl.MonthlyRevenue)
	g.Get("/distribucion", ctl.Distribution)
	g.Get("/export.xlsx", ctl.Export)
}
