package http

import (
	appDetection "github.com/NeuralTrust/TrustDetect/pkg/app/detection"
	"github.com/NeuralTrust/TrustDetect/pkg/common"
	"github.com/NeuralTrust/TrustDetect/pkg/handlers/http/request"
	"github.com/NeuralTrust/TrustDetect/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DetectHandlerDeps struct {
	Logger   *logrus.Logger
	Detector appDetection.Detector
}

type detectHandler struct {
	logger   *logrus.Logger
	detector appDetection.Detector
}

func NewDetectHandler(deps DetectHandlerDeps) Handler {
	return &detectHandler{
		logger:   deps.Logger,
		detector: deps.Detector,
	}
}

// Handle @Summary Detect AI-generated text
// @Description Scores a text with the surprisal and dual-alignment features and returns the verdict
// @Tags Detection
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token, required when auth is enabled"
// @Param request body request.DetectRequest true "Text to analyze"
// @Success 200 {object} response.DetectResponse "Verdict"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 502 {object} map[string]interface{} "Language model service failed"
// @Router /v1/detect [post]
func (h *detectHandler) Handle(c *fiber.Ctx) error {
	var req request.DetectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.detector.Detect(c.UserContext(), req.GetText())
	if err != nil {
		status, message := ErrorStatus(err)
		requestID, _ := c.Locals(common.TraceIdKey).(string)
		h.logger.WithError(err).
			WithField("request_id", requestID).
			WithField("status", status).
			Error("detection failed")
		return c.Status(status).JSON(fiber.Map{"error": message})
	}

	c.Set(common.AnalysisIDHeader, result.ID)
	return c.Status(fiber.StatusOK).JSON(response.NewDetectResponse(response.DetectResponseInput{
		AnalysisID:       result.ID,
		Verdict:          result.Verdict,
		TextHash:         result.TextHash,
		Cached:           result.Cached,
		ProcessingTimeMs: result.Duration.Milliseconds(),
		IncludeFeatures:  req.IncludeFeatures,
	}))
}
