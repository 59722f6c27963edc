package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustDetect/pkg/common"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
)

type metricsMiddleware struct{}

func NewMetricsMiddleware() Middleware {
	return &metricsMiddleware{}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime, ok := c.Locals(common.LatencyContextKey).(time.Time)
		if !ok {
			startTime = time.Now()
		}

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}
		prometheus.RequestTotal.WithLabelValues(c.Method(), statusClass(status)).Inc()

		if prometheus.Config.EnableLatency {
			route := "all"
			if prometheus.Config.EnablePerRoute {
				route = c.Route().Path
			}
			prometheus.RequestLatency.WithLabelValues(route).
				Observe(float64(time.Since(startTime).Milliseconds()))
		}
		return err
	}
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return fmt.Sprintf("%dxx", code/100)
}
