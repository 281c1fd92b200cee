package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type seen struct {
	path, query, apikey, auth string
}

func upstream(t *testing.T, got *seen) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.apikey = r.Header.Get("apikey")
		got.auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDevProxy_ForwardsWithKey(t *testing.T) {
	var got seen
	srv := upstream(t, &got)

	app := fiber.New()
	require.True(t, MountDevProxy(app, DevProxyConfig{Enabled: true, BaseURL: srv.URL, APIKey: "anon"}))

	cases := []struct{ in, path string }{
		{"/rest/v1/clientes?select=*", "/rest/v1/clientes"},
		{"/auth/v1/user?x=1", "/auth/v1/user"},
		{"/api/supabase/clientes?select=*", "/rest/v1/clientes"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", tc.in, nil)
		req.Header.Set("Authorization", "Bearer caller")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, tc.in)
		body, _ := io.ReadAll(resp.Body)
		require.JSONEq(t, `[{"id":1}]`, string(body))

		require.Equal(t, tc.path, got.path)
		require.NotEmpty(t, got.query)
		require.Equal(t, "anon", got.apikey)
		require.Equal(t, "Bearer anon", got.auth)
	}
}

func TestDevProxy_DisabledWithoutConfig(t *testing.T) {
	app := fiber.New()
	require.False(t, MountDevProxy(app, DevProxyConfig{Enabled: true, BaseURL: "http://x"}))
	require.False(t, MountDevProxy(app, DevProxyConfig{BaseURL: "http://x", APIKey: "k"}))

	resp, err := app.Test(httptest.NewRequest("GET", "/rest/v1/clientes", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDevProxy_UpstreamDown(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	app := fiber.New()
	MountDevProxy(app, DevProxyConfig{Enabled: true, BaseURL: url, APIKey: "k"})
	resp, err := app.Test(httptest.NewRequest("GET", "/rest/v1/clientes", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}
