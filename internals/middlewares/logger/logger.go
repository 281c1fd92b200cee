package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware writes one access line per request, stamped in loc.
func LoggerMiddleware(loc *time.Location) fiber.Handler {
	tz := "UTC"
	if loc != nil {
		tz = loc.String()
	}
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   tz,
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency}\n",
	})
}
