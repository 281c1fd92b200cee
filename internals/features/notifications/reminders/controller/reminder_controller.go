package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"admon_backend/internals/features/notifications/reminders/service"
	helper "admon_backend/internals/helpers"
	"admon_backend/internals/helpers/dbtime"
)

type ReminderController struct {
	Svc *service.Service
}

func NewReminderController(svc *service.Service) *ReminderController {
	return &ReminderController{Svc: svc}
}

// POST /api/suscripciones/:id/recordatorio
func (h *ReminderController) Send(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	row, err := h.Svc.Send(c.UserContext(), id, dbtime.GetLocation(c))
	switch {
	case err == nil:
		return helper.JsonCreated(c, "reminder sent", row)
	case errors.Is(err, service.ErrSubscriptionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoEmail):
		return helper.JsonValidationError(c, map[string][]string{"email": {"required"}})
	case errors.Is(err, service.ErrNotOverdue):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotifierDisabled):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrDispatch):
		return helper.JsonErrorWithDetails(c, fiber.StatusBadGateway, err.Error(), row)
	default:
		log.Printf("[REMINDER] %s: %v", id, err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not send reminder")
	}
}

// GET /api/suscripciones/:id/recordatorios
func (h *ReminderController) History(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := h.Svc.History(c.UserContext(), id)
	if err != nil {
		return helper.MapDBError(err, "reminder")
	}
	return helper.JsonOK(c, "ok", rows)
}
