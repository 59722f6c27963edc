package middleware

import (
	infra "github.com/NeuralTrust/TrustDetect/pkg/infra/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const SemaphoreContextKey = "ws_semaphore"

type websocketMiddleware struct {
	logger    *logrus.Logger
	semaphore *infra.Semaphore
}

// NewWebsocketMiddleware admits upgrade requests while the connection cap
// allows. The slot is handed to the websocket handler through Locals and is
// released here only when the upgrade itself fails.
func NewWebsocketMiddleware(logger *logrus.Logger, semaphore *infra.Semaphore) Middleware {
	return &websocketMiddleware{
		logger:    logger,
		semaphore: semaphore,
	}
}

func (m *websocketMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if !m.semaphore.Acquire() {
			m.logger.WithField("max_connections", m.semaphore.Max()).
				Warn("maximum websocket connections reached, rejecting connection")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many live connections"})
		}
		c.Locals(SemaphoreContextKey, m.semaphore)

		if err := c.Next(); err != nil {
			m.semaphore.Release()
			return err
		}
		return nil
	}
}
