package route

import (
	"github.com/gofiber/fiber/v2"

	gateCtl "admon_backend/internals/features/auth/gate/controller"
	"admon_backend/internals/features/auth/gate/service"
	"admon_backend/internals/middlewares"
	authMw "admon_backend/internals/middlewares/auth"
)

// GateRoutes must be registered before the session middleware is mounted
// on the same router, so login and session stay reachable.
func GateRoutes(r fiber.Router, g *service.Gate) {
	ctl := gateCtl.NewGateController(g)

	a := r.Group("/auth")
	a.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	a.Post("/logout", ctl.Logout)
	a.Get("/session", ctl.Session) // never 401s, reports the state
	a.Put("/clave", authMw.RequireSession(g), ctl.ChangePassphrase)
}
