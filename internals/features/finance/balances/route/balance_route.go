package route

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	balanceCtl "admon_backend/internals/features/finance/balances/controller"
)

func BalanceRoutes(r fiber.Router, db *gorm.DB, loc *time.Location) {
	ctl := balanceCtl.NewBalanceController(db, loc)

	r.Get("/balances", ctl.All)                       // GET /balances
	r.Get("/clientes/:id/balance", ctl.ClientBalance) // GET /clientes/:id/balance
}
