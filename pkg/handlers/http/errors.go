package http

import (
	"context"
	"errors"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/httpx"
	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidJsonPayload = errors.New("invalid JSON payload")
)

// ErrorStatus maps analysis failures to HTTP status codes. Failures of the
// model sidecars are upstream errors; everything else is ours.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "analysis timed out"
	case errors.Is(err, context.Canceled):
		return fiber.StatusRequestTimeout, "request canceled"
	case errors.Is(err, httpx.ErrCircuitOpen):
		return fiber.StatusServiceUnavailable, "language model service unavailable"
	case errors.Is(err, lm.ErrInferenceFailed), errors.Is(err, lm.ErrShapeMismatch):
		return fiber.StatusBadGateway, "language model service failed"
	default:
		return fiber.StatusInternalServerError, "analysis failed"
	}
}
