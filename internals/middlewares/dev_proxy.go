package middlewares

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"

	"admon_backend/internals/configs"
	helper "admon_backend/internals/helpers"
)

const legacyProxyPrefix = "/api/supabase/"

type DevProxyConfig struct {
	Enabled bool
	BaseURL string
	APIKey  string
}

func DevProxyConfigFromEnv() DevProxyConfig {
	return DevProxyConfig{
		Enabled: configs.GetEnvBool("DEV_PROXY", false),
		BaseURL: strings.TrimRight(strings.TrimSpace(configs.GetEnv("ROW_STORE_URL")), "/"),
		APIKey:  strings.TrimSpace(configs.GetEnv("ROW_STORE_API_KEY")),
	}
}

func (c DevProxyConfig) usable() bool {
	return c.Enabled && c.BaseURL != "" && c.APIKey != ""
}

// MountDevProxy forwards the hosted row store's REST and auth paths with
// the API key injected. Mount it before any session-guarded /api group.
func MountDevProxy(app *fiber.App, cfg DevProxyConfig) bool {
	if !cfg.usable() {
		return false
	}
	h := devProxyHandler(cfg)
	app.All("/rest/v1/*", h)
	app.All("/auth/v1/*", h)
	app.All(legacyProxyPrefix+"*", h)
	log.Printf("[DEV PROXY] forwarding /rest/v1, /auth/v1 and %s* to %s", legacyProxyPrefix, cfg.BaseURL)
	return true
}

func devProxyHandler(cfg DevProxyConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if strings.HasPrefix(path, legacyProxyPrefix) {
			path = "/rest/v1/" + strings.TrimPrefix(path, legacyProxyPrefix)
		}
		target := cfg.BaseURL + path
		if q := string(c.Request().URI().QueryString()); q != "" {
			target += "?" + q
		}

		c.Request().Header.Set("apikey", cfg.APIKey)
		c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+cfg.APIKey)

		if err := proxy.Do(c, target); err != nil {
			log.Printf("[DEV PROXY] %s %s: %v", c.Method(), target, err)
			return helper.JsonErrorWithDetails(c, fiber.StatusBadGateway, "proxy_error", err.Error())
		}
		c.Response().Header.Del(fiber.HeaderServer)
		return nil
	}
}
