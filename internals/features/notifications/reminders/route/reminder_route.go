package route

import (
	"github.com/gofiber/fiber/v2"

	reminderCtl "admon_backend/internals/features/notifications/reminders/controller"
	"admon_backend/internals/features/notifications/reminders/service"
)

func ReminderRoutes(r fiber.Router, svc *service.Service) {
	ctl := reminderCtl.NewReminderController(svc)

	g := r.Group("/suscripciones/:id")
	g.Post("/recordatorio", ctl.Send)
	g.Get("/recordatorios", ctl.History)
}
