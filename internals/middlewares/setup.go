package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"admon_backend/internals/configs"
	"admon_backend/internals/middlewares/logger"
)

func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware(configs.Location()))
	app.Use(LocationMiddleware(configs.Location()))
}
