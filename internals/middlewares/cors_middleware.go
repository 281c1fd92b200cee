package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"admon_backend/internals/configs"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5000",
	"http://127.0.0.1:5173",
}

// CorsMiddleware allows the dashboard origins; CORS_ORIGINS (comma separated)
// replaces the local defaults.
func CorsMiddleware() fiber.Handler {
	origins := defaultOrigins
	if raw := strings.TrimSpace(configs.GetEnv("CORS_ORIGINS")); raw != "" {
		origins = origins[:0:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "Content-Disposition, X-Request-ID",
		AllowCredentials: true,
	})
}
