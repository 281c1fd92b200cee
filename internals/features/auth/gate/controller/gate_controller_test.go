package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"admon_backend/internals/databases/dbtest"
	"admon_backend/internals/features/auth/gate/route"
	"admon_backend/internals/features/auth/gate/service"
	helper "admon_backend/internals/helpers"
	authMw "admon_backend/internals/middlewares/auth"
)

func setup(t *testing.T) *fiber.App {
	t.Setenv("COOKIE_SECURE", "false")
	db := dbtest.Open(t)
	_, err := service.SeedPassphrase(context.Background(), db, "abc123")
	require.NoError(t, err)
	g := service.NewGate(db, "test-secret", time.Hour)

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	api := app.Group("/api")
	route.GateRoutes(api, g)
	api.Use(authMw.RequireSession(g))
	api.Get("/clientes", func(c *fiber.Ctx) error { return helper.JsonOK(c, "ok", nil) })
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func login(t *testing.T, app *fiber.App, clave string) (int, string, *http.Response) {
	resp := do(t, app, "POST", "/api/auth/login", `{"clave":"`+clave+`"}`, "")
	var env struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env.Data.Token, resp
}

func TestGate_LoginGatesRoutes(t *testing.T) {
	app := setup(t)

	require.Equal(t, fiber.StatusUnauthorized, do(t, app, "GET", "/api/clientes", "", "").StatusCode)

	status, _, _ := login(t, app, "wrong")
	require.Equal(t, fiber.StatusUnauthorized, status)

	status, token, resp := login(t, app, "abc123")
	require.Equal(t, fiber.StatusOK, status)
	require.NotEmpty(t, token)

	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == helper.SessionCookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)

	require.Equal(t, fiber.StatusOK, do(t, app, "GET", "/api/clientes", "", token).StatusCode)

	// the cookie alone is enough
	req := httptest.NewRequest("GET", "/api/clientes", nil)
	req.AddCookie(&http.Cookie{Name: helper.SessionCookieName, Value: cookie.Value})
	r2, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, r2.StatusCode)
}

func TestGate_LogoutRevokes(t *testing.T) {
	app := setup(t)
	_, token, _ := login(t, app, "abc123")

	require.Equal(t, fiber.StatusOK, do(t, app, "POST", "/api/auth/logout", "", token).StatusCode)
	require.Equal(t, fiber.StatusUnauthorized, do(t, app, "GET", "/api/clientes", "", token).StatusCode)

	resp := do(t, app, "GET", "/api/auth/session", "", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var env struct {
		Data service.Session `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.False(t, env.Data.Authenticated)
}

func TestGate_SessionState(t *testing.T) {
	app := setup(t)
	_, token, _ := login(t, app, "abc123")

	resp := do(t, app, "GET", "/api/auth/session", "", token)
	var env struct {
		Data service.Session `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.True(t, env.Data.Authenticated)
	require.NotNil(t, env.Data.ExpiresAt)
}

func TestGate_ChangePassphrase(t *testing.T) {
	app := setup(t)
	_, mine, _ := login(t, app, "abc123")
	_, theirs, _ := login(t, app, "abc123")

	require.Equal(t, fiber.StatusUnauthorized,
		do(t, app, "PUT", "/api/auth/clave", `{"clave_actual":"abc123","clave_nueva":"nueva123"}`, "").StatusCode)
	require.Equal(t, fiber.StatusUnprocessableEntity,
		do(t, app, "PUT", "/api/auth/clave", `{"clave_actual":"abc123","clave_nueva":"abc"}`, mine).StatusCode)
	require.Equal(t, fiber.StatusUnauthorized,
		do(t, app, "PUT", "/api/auth/clave", `{"clave_actual":"wrong","clave_nueva":"nueva123"}`, mine).StatusCode)
	require.Equal(t, fiber.StatusOK,
		do(t, app, "PUT", "/api/auth/clave", `{"clave_actual":"abc123","clave_nueva":"nueva123"}`, mine).StatusCode)

	require.Equal(t, fiber.StatusOK, do(t, app, "GET", "/api/clientes", "", mine).StatusCode)
	require.Equal(t, fiber.StatusUnauthorized, do(t, app, "GET", "/api/clientes", "", theirs).StatusCode)

	status, _, _ := login(t, app, "nueva123")
	require.Equal(t, fiber.StatusOK, status)
}
