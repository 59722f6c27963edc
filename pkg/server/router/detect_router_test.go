package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	handlers "github.com/NeuralTrust/TrustDetect/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/TrustDetect/pkg/handlers/websocket"
	"github.com/NeuralTrust/TrustDetect/pkg/middleware"
	"github.com/NeuralTrust/TrustDetect/pkg/server/router"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	status int
	calls  int
}

func (h *stubHandler) Handle(c *fiber.Ctx) error {
	h.calls++
	return c.SendStatus(h.status)
}

type stubWSHandler struct{}

func (stubWSHandler) Handle(*websocket.Conn) {}

type headerMiddleware struct{}

func (headerMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Guarded", "true")
		return c.Next()
	}
}

type routes struct {
	app     *fiber.App
	detect  *stubHandler
	ready   *stubHandler
	version *stubHandler
}

func buildRoutes(t *testing.T) routes {
	t.Helper()
	r := routes{
		app:     fiber.New(),
		detect:  &stubHandler{status: http.StatusOK},
		ready:   &stubHandler{status: http.StatusServiceUnavailable},
		version: &stubHandler{status: http.StatusOK},
	}
	err := router.NewDetectRouter(router.DetectRouterDeps{
		MiddlewareTransport: middleware.NewTransport(headerMiddleware{}),
		HandlerTransport: &handlers.HandlerTransportDTO{
			DetectHandler:     r.detect,
			ReadyHandler:      r.ready,
			GetVersionHandler: r.version,
		},
		WSHandlerTransport: &wsHandlers.HandlerTransportDTO{LiveDetectHandler: stubWSHandler{}},
	}).BuildRoutes(r.app)
	require.NoError(t, err)
	return r
}

func TestDetectRouter_Health(t *testing.T) {
	r := buildRoutes(t)

	for _, path := range []string{router.HealthPath, router.AdminHealthPath} {
		resp, err := r.app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotEmpty(t, body["time"])
		assert.Empty(t, resp.Header.Get("X-Guarded"))
	}
}

func TestDetectRouter_Routes(t *testing.T) {
	r := buildRoutes(t)

	resp, err := r.app.Test(httptest.NewRequest(http.MethodGet, router.ReadyPath, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, 1, r.ready.calls)

	resp, err = r.app.Test(httptest.NewRequest(http.MethodGet, router.VersionPath, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, r.version.calls)

	resp, err = r.app.Test(httptest.NewRequest(http.MethodPost, "/v1"+router.DetectPath, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Guarded"))
	assert.Equal(t, 1, r.detect.calls)

	resp, err = r.app.Test(httptest.NewRequest(http.MethodGet, "/v1"+router.DetectPath, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestDetectRouter_LiveDetectRequiresUpgrade(t *testing.T) {
	r := buildRoutes(t)

	resp, err := r.app.Test(httptest.NewRequest(http.MethodGet, "/v1"+router.LiveDetectPath, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestDetectRouter_InvalidTransport(t *testing.T) {
	err := router.NewDetectRouter(router.DetectRouterDeps{}).BuildRoutes(fiber.New())
	assert.ErrorIs(t, err, router.ErrInvalidHandlerTransport)
}
