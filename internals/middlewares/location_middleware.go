package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"admon_backend/internals/helpers/dbtime"
)

// LocationMiddleware stores the business time zone for dbtime.GetLocation.
func LocationMiddleware(loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return func(c *fiber.Ctx) error {
		c.Locals(dbtime.LocAppLoc, loc)
		return c.Next()
	}
}
