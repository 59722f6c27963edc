package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustDetect/pkg/common"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/auth/jwt"
	infraPrometheus "github.com/NeuralTrust/TrustDetect/pkg/infra/prometheus"
	infraWebsocket "github.com/NeuralTrust/TrustDetect/pkg/infra/websocket"
	"github.com/NeuralTrust/TrustDetect/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	return out["error"]
}

func newAuthApp(manager jwt.Manager) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewAuthMiddleware(logrus.New(), manager).Middleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		subject, _ := c.Locals(common.SubjectContextKey).(string)
		return c.SendString(subject)
	})
	return app
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	app := newAuthApp(jwt.NewJwtManager("secret"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing bearer token", decodeError(t, resp))
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	app := newAuthApp(jwt.NewJwtManager("secret"))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	app := newAuthApp(jwt.NewJwtManager("secret"))

	other, err := jwt.NewJwtManager("other").CreateToken("intruder", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid token", decodeError(t, resp))
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	manager := jwt.NewJwtManager("secret")
	app := newAuthApp(manager)

	token, err := manager.CreateToken("batch-scorer", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "batch-scorer", string(body))
}

func TestRequestLogMiddleware(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(middleware.NewRequestLogMiddleware(logger).Middleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		id, _ := c.Locals(common.TraceIdKey).(string)
		assert.Equal(t, id, c.UserContext().Value(common.TraceIdKey))
		return c.SendStatus(fiber.StatusNoContent)
	})

	t.Run("generates an id", func(t *testing.T) {
		hook.Reset()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NoError(t, err)
		id := resp.Header.Get(common.RequestIDHeader)
		_, err = uuid.Parse(id)
		assert.NoError(t, err)

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, "request completed", entry.Message)
		assert.Equal(t, id, entry.Data["request_id"])
		assert.Equal(t, fiber.StatusNoContent, entry.Data["status"])
	})

	t.Run("keeps a caller id", func(t *testing.T) {
		callerID := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(common.RequestIDHeader, callerID)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, callerID, resp.Header.Get(common.RequestIDHeader))
	})

	t.Run("replaces a malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(common.RequestIDHeader, "not-a-uuid")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.NotEqual(t, "not-a-uuid", resp.Header.Get(common.RequestIDHeader))
	})

	t.Run("browser fields", func(t *testing.T) {
		hook.Reset()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
		_, err := app.Test(req)
		require.NoError(t, err)
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, "Computer", entry.Data["device"])
		assert.Equal(t, "de-DE", entry.Data["locale"])
	})
}

func TestPanicRecoverMiddleware(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(middleware.NewPanicRecoverMiddleware(logger).Middleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", decodeError(t, resp))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestMetricsMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.NewMetricsMiddleware().Middleware())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	okBefore := testutil.ToFloat64(infraPrometheus.RequestTotal.WithLabelValues(http.MethodGet, "2xx"))
	clientBefore := testutil.ToFloat64(infraPrometheus.RequestTotal.WithLabelValues(http.MethodGet, "4xx"))

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(infraPrometheus.RequestTotal.WithLabelValues(http.MethodGet, "2xx")))
	assert.Equal(t, clientBefore+1, testutil.ToFloat64(infraPrometheus.RequestTotal.WithLabelValues(http.MethodGet, "4xx")))
}

func upgradeRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	return req
}

func TestWebsocketMiddleware(t *testing.T) {
	semaphore := infraWebsocket.NewSemaphore(infraWebsocket.WithMaxConnections(1))
	failUpgrade := false

	app := fiber.New()
	app.Use(middleware.NewWebsocketMiddleware(logrus.New(), semaphore).Middleware())
	app.Get("/ws", func(c *fiber.Ctx) error {
		assert.Same(t, semaphore, c.Locals(middleware.SemaphoreContextKey))
		if failUpgrade {
			return errors.New("upgrade failed")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	t.Run("plain request", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
		assert.Equal(t, 0, semaphore.GetCurrentConnections())
	})

	t.Run("failed upgrade releases the slot", func(t *testing.T) {
		failUpgrade = true
		defer func() { failUpgrade = false }()
		_, err := app.Test(upgradeRequest())
		require.NoError(t, err)
		assert.Equal(t, 0, semaphore.GetCurrentConnections())
	})

	t.Run("cap reached", func(t *testing.T) {
		resp, err := app.Test(upgradeRequest())
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, semaphore.GetCurrentConnections())

		resp, err = app.Test(upgradeRequest())
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
		semaphore.Release()
	})
}
