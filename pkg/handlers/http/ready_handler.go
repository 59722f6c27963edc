package http

import (
	"context"
	"time"

	appDetection "github.com/NeuralTrust/TrustDetect/pkg/app/detection"
	"github.com/NeuralTrust/TrustDetect/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const readyTimeout = 5 * time.Second

type readyHandler struct {
	logger   *logrus.Logger
	detector appDetection.Detector
}

func NewReadyHandler(logger *logrus.Logger, detector appDetection.Detector) Handler {
	return &readyHandler{
		logger:   logger,
		detector: detector,
	}
}

// Handle @Summary Readiness probe
// @Description Reports whether the classifier is loaded and both language model services answer
// @Tags Health
// @Produce json
// @Success 200 {object} response.ReadyResponse "Ready"
// @Failure 503 {object} response.ReadyResponse "Not ready"
// @Router /ready [get]
func (h *readyHandler) Handle(c *fiber.Ctx) error {
	runtime := h.detector.Runtime()
	ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	defer cancel()

	if err := runtime.Check(ctx); err != nil {
		h.logger.WithError(err).Warn("readiness check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(response.ReadyResponse{
			Status: "not_ready",
			Reason: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(response.ReadyResponse{
		Status: "ready",
		Models: map[string]string{
			"surprisal":      runtime.Surprisal.Name(),
			"dual_alignment": runtime.Dual.Name(),
		},
		Classifier: runtime.Classifier.Digest(),
	})
}
