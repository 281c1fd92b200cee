package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	gateService "admon_backend/internals/features/auth/gate/service"
	helper "admon_backend/internals/helpers"
)

// RequireSession lets a request through only with a valid token whose
// session row is neither revoked nor expired.
func RequireSession(g *gateService.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - no token provided")
		}

		sess, err := g.Verify(c.UserContext(), raw)
		switch {
		case errors.Is(err, gateService.ErrInvalidToken):
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - invalid token")
		case errors.Is(err, gateService.ErrSessionInactive):
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - session ended")
		case err != nil:
			log.Printf("[ERROR] RequireSession: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "could not verify session")
		}

		c.Locals(helper.LocSessionID, sess.ID)
		helper.SetRawAccessToken(c, raw)
		return c.Next()
	}
}
