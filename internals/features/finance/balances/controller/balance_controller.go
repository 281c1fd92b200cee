package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"admon_backend/internals/features/finance/balances/service"
	helper "admon_backend/internals/helpers"
)

type BalanceController struct {
	DB     *gorm.DB
	Loader *service.Loader
}

func NewBalanceController(db *gorm.DB, loc *time.Location) *BalanceController {
	return &BalanceController{DB: db, Loader: service.NewLoader(db, loc)}
}

/* ===================== CLIENT BALANCE ===================== */
// GET /api/clientes/:id/balance
func (h *BalanceController) ClientBalance(c *fiber.Ctx) error {
	clientID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	out, err := h.Loader.ForClient(c.UserContext(), clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		log.Printf("[BALANCE] client=%s: %v", clientID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not load client balance")
	}
	return helper.JsonOK(c, "ok", out)
}

/* ===================== ALL BALANCES ===================== */
// GET /api/balances
func (h *BalanceController) All(c *fiber.Ctx) error {
	out, err := h.Loader.ForAll(c.UserContext())
	if err != nil {
		log.Printf("[BALANCE] all: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not load balances")
	}
	return helper.JsonOK(c, "ok", out)
}
