package middleware

import (
	"context"
	"time"

	"github.com/NeuralTrust/TrustDetect/pkg/common"
	"github.com/NeuralTrust/TrustDetect/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type requestLogMiddleware struct {
	logger *logrus.Logger
}

// NewRequestLogMiddleware tags every request with an id (the caller's
// X-Request-Id when it is a valid uuid) and writes one access log entry when
// the request completes.
func NewRequestLogMiddleware(logger *logrus.Logger) Middleware {
	return &requestLogMiddleware{logger: logger}
}

func (m *requestLogMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(common.RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Locals(common.TraceIdKey, requestID)
		c.Locals(common.LatencyContextKey, start)
		c.Set(common.RequestIDHeader, requestID)

		ctx := context.WithValue(c.UserContext(), common.TraceIdKey, requestID)
		c.SetUserContext(ctx)

		err := c.Next()

		fields := logrus.Fields{
			"request_id":  requestID,
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.IP(),
		}
		if ua := utils.ParseUserAgent(c.Get(fiber.HeaderUserAgent), c.Get(fiber.HeaderAcceptLanguage)); ua != nil {
			fields["device"] = ua.Device
			fields["os"] = ua.OS
			fields["browser"] = ua.Browser
			if ua.Locale != "" {
				fields["locale"] = ua.Locale
			}
		}
		if subject, ok := c.Locals(common.SubjectContextKey).(string); ok && subject != "" {
			fields["subject"] = subject
		}

		entry := m.logger.WithFields(fields)
		if err != nil {
			entry = entry.WithError(err)
		}
		if c.Response().StatusCode() >= fiber.StatusInternalServerError {
			entry.Warn("request completed")
		} else {
			entry.Info("request completed")
		}
		return err
	}
}
