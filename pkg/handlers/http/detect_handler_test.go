package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appDetection "github.com/NeuralTrust/TrustDetect/pkg/app/detection"
	appMocks "github.com/NeuralTrust/TrustDetect/pkg/app/detection/mocks"
	domainDetection "github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
	domainMocks "github.com/NeuralTrust/TrustDetect/pkg/domain/detection/mocks"
	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
	lmMocks "github.com/NeuralTrust/TrustDetect/pkg/domain/lm/mocks"
	"github.com/NeuralTrust/TrustDetect/pkg/handlers/http/response"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustDetect/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleText = "The committee reviewed the proposal in detail and agreed that the revised budget " +
	"addresses every concern raised during the previous quarterly meeting."

func newDetectApp(t *testing.T) (*fiber.App, *appMocks.Detector) {
	t.Helper()
	detector := appMocks.NewDetector(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New()
	app.Post("/v1/detect", NewDetectHandler(DetectHandlerDeps{Logger: logger, Detector: detector}).Handle)
	return app, detector
}

func postDetect(t *testing.T, app *fiber.App, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/detect", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func scoredDetection(p float64) appDetection.Detection {
	verdict := domainDetection.NewVerdict(p, domainDetection.DefaultThresholds())
	var vector domainDetection.FeatureVector
	for i := range vector {
		vector[i] = float64(i) / 10
	}
	verdict.Features = &vector
	return appDetection.Detection{
		ID:       "4a0c6b8e-1f7e-4d8a-9a52-8f5c2d1e0b33",
		Verdict:  verdict,
		TextHash: domainDetection.TextHash(sampleText),
		Duration: 1250 * time.Millisecond,
	}
}

func TestDetectHandler_Success(t *testing.T) {
	app, detector := newDetectApp(t)
	detector.EXPECT().Detect(mock.Anything, sampleText).Return(scoredDetection(0.8347), nil).Once()

	body, _ := json.Marshal(map[string]interface{}{"text": sampleText})
	status, out := postDetect(t, app, string(body))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "4a0c6b8e-1f7e-4d8a-9a52-8f5c2d1e0b33", out["analysis_id"])
	assert.Equal(t, "likely_ai", out["label"])
	assert.Equal(t, "Likely AI-generated (Confidence: 83.47%)", out["message"])
	assert.Equal(t, 0.835, out["ai_probability"])
	assert.Equal(t, float64(1250), out["processing_time_ms"])
	assert.Equal(t, domainDetection.TextHash(sampleText), out["text_hash"])
	assert.Equal(t, false, out["cached"])
	assert.NotContains(t, out, "features")

	distribution, ok := out["distribution"].(map[string]interface{})
	require.True(t, ok)
	assert.InDelta(t, 100, distribution["AI"].(float64)+distribution["Human"].(float64), 1e-9)
}

func TestDetectHandler_IncludeFeatures(t *testing.T) {
	app, detector := newDetectApp(t)
	detector.EXPECT().Detect(mock.Anything, sampleText).Return(scoredDetection(0.3), nil).Once()

	body, _ := json.Marshal(map[string]interface{}{"text": sampleText, "include_features": true})
	status, out := postDetect(t, app, string(body))

	require.Equal(t, fiber.StatusOK, status)
	features, ok := out["features"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, features, domainDetection.FeatureCount)
	assert.Equal(t, 0.0, features[domainDetection.FeatureNames()[0]])
}

func TestDetectHandler_EmptyTextIsNotAnError(t *testing.T) {
	app, detector := newDetectApp(t)
	detector.EXPECT().Detect(mock.Anything, "").Return(appDetection.Detection{
		ID:      "id",
		Verdict: domainDetection.InsufficientInputVerdict(15),
	}, nil).Once()

	status, out := postDetect(t, app, `{"text": ""}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "insufficient_input", out["label"])
	assert.Equal(t, 0.0, out["ai_probability"])
}

func TestDetectHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "malformed json", body: `{"text": `, wantErr: ErrInvalidJsonPayload.Error()},
		{name: "missing text", body: `{"include_features": true}`, wantErr: "text is required"},
		{
			name:    "text too large",
			body:    fmt.Sprintf(`{"text": %q}`, strings.Repeat("word ", 20001)),
			wantErr: "text must not exceed 100000 bytes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newDetectApp(t)
			status, out := postDetect(t, app, tt.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, tt.wantErr, out["error"])
		})
	}
}

func TestDetectHandler_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "inference failure", err: fmt.Errorf("surprisal features: %w", lm.ErrInferenceFailed), wantStatus: fiber.StatusBadGateway},
		{name: "shape mismatch", err: fmt.Errorf("dual: %w", lm.ErrShapeMismatch), wantStatus: fiber.StatusBadGateway},
		{name: "breaker open", err: fmt.Errorf("breaker (surprisal): %w", httpx.ErrCircuitOpen), wantStatus: fiber.StatusServiceUnavailable},
		{name: "classifier failure", err: errors.New("classifier: boom"), wantStatus: fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, detector := newDetectApp(t)
			detector.EXPECT().Detect(mock.Anything, sampleText).Return(appDetection.Detection{}, tt.err).Once()

			body, _ := json.Marshal(map[string]interface{}{"text": sampleText})
			status, out := postDetect(t, app, string(body))
			assert.Equal(t, tt.wantStatus, status)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestReadyHandler(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	t.Run("ready", func(t *testing.T) {
		surprisal := lmMocks.NewClient(t)
		dual := lmMocks.NewClient(t)
		classifier := domainMocks.NewClassifier(t)
		surprisal.EXPECT().Ping(mock.Anything).Return(nil)
		dual.EXPECT().Ping(mock.Anything).Return(nil)
		surprisal.EXPECT().Name().Return("gpt2")
		dual.EXPECT().Name().Return("falcon-7b")
		classifier.EXPECT().Digest().Return("abc123")

		detector := appMocks.NewDetector(t)
		detector.EXPECT().Runtime().Return(appDetection.NewRuntime(surprisal, dual, classifier))

		app := fiber.New()
		app.Get("/ready", NewReadyHandler(logger, detector).Handle)
		resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out response.ReadyResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "ready", out.Status)
		assert.Equal(t, "gpt2", out.Models["surprisal"])
		assert.Equal(t, "abc123", out.Classifier)
	})

	t.Run("not ready", func(t *testing.T) {
		detector := appMocks.NewDetector(t)
		detector.EXPECT().Runtime().Return(appDetection.Unavailable("classifier artifact missing"))

		app := fiber.New()
		app.Get("/ready", NewReadyHandler(logger, detector).Handle)
		resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

		var out response.ReadyResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "not_ready", out.Status)
		assert.Contains(t, out.Reason, "classifier artifact missing")
	})
}

func TestGetVersionHandler(t *testing.T) {
	app := fiber.New()
	app.Get("/version", NewGetVersionHandler().Handle)

	resp, err := app.Test(httptest.NewRequest("GET", "/version", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var info version.Info
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, version.AppName, info.AppName)
	assert.Equal(t, version.Version, info.Version)
}
