package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	LocRawToken       = "raw_token"
	LocSessionID      = "session_id"
	SessionCookieName = "admon_session"
)

// GetRawAccessToken looks at the Authorization header first, then the
// session cookie, then whatever the auth middleware stashed in Locals.
func GetRawAccessToken(c *fiber.Ctx) string {
	const p = "bearer "
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) > len(p) && strings.ToLower(auth[:len(p)]) == p {
		return strings.TrimSpace(auth[len(p):])
	}
	if v := strings.TrimSpace(c.Cookies(SessionCookieName)); v != "" {
		return v
	}
	if v, ok := c.Locals(LocRawToken).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if raw = strings.TrimSpace(raw); raw != "" {
		c.Locals(LocRawToken, raw)
	}
}
