package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	appDetection "github.com/NeuralTrust/TrustDetect/pkg/app/detection"
	handlers "github.com/NeuralTrust/TrustDetect/pkg/handlers/http"
	"github.com/NeuralTrust/TrustDetect/pkg/handlers/http/request"
	"github.com/NeuralTrust/TrustDetect/pkg/handlers/http/response"
	"github.com/NeuralTrust/TrustDetect/pkg/middleware"
	infraWebsocket "github.com/NeuralTrust/TrustDetect/pkg/infra/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

const (
	defaultIdleTimeout = 5 * time.Minute
	writeWait          = 10 * time.Second
)

type LiveDetectHandlerDeps struct {
	Logger      *logrus.Logger
	Detector    appDetection.Detector
	IdleTimeout time.Duration
}

type liveDetectHandler struct {
	logger      *logrus.Logger
	detector    appDetection.Detector
	idleTimeout time.Duration
}

// NewLiveDetectHandler re-analyzes the text of every frame it receives and
// answers each with one verdict frame, in order.
func NewLiveDetectHandler(deps LiveDetectHandlerDeps) Handler {
	idle := deps.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	return &liveDetectHandler{
		logger:      deps.Logger,
		detector:    deps.Detector,
		idleTimeout: idle,
	}
}

type errorFrame struct {
	Error string `json:"error"`
}

// Handle reads frames on a separate goroutine so a disconnect cancels the
// analysis in flight and frees its slot and device lock. Frames are still
// answered one at a time, in order.
func (h *liveDetectHandler) Handle(c *websocket.Conn) {
	if semaphore, ok := c.Locals(middleware.SemaphoreContextKey).(*infraWebsocket.Semaphore); ok {
		defer semaphore.Release()
	}

	if err := c.SetReadDeadline(time.Now().Add(h.idleTimeout)); err != nil {
		h.logger.WithError(err).Error("failed to set read deadline")
		return
	}
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(h.idleTimeout))
	})

	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan []byte)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.keepAlive(ctx, c)
	}()
	go func() {
		defer wg.Done()
		h.read(ctx, cancel, c, frames)
	}()
	// the connection goes back to a pool once Handle returns
	defer func() {
		cancel()
		_ = c.SetReadDeadline(time.Now())
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-frames:
			frame := h.analyze(ctx, payload)
			if ctx.Err() != nil {
				return
			}
			if err := h.write(c, frame); err != nil {
				h.logger.WithError(err).Debug("failed to write verdict frame")
				return
			}
		}
	}
}

// read forwards text frames until the client goes away, then cancels ctx.
func (h *liveDetectHandler) read(ctx context.Context, cancel context.CancelFunc, c *websocket.Conn, frames chan<- []byte) {
	defer cancel()
	for {
		messageType, payload, err := c.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.WithError(err).Debug("live connection closed")
			}
			return
		}
		if err := c.SetReadDeadline(time.Now().Add(h.idleTimeout)); err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		select {
		case frames <- payload:
		case <-ctx.Done():
			return
		}
	}
}

func (h *liveDetectHandler) analyze(ctx context.Context, payload []byte) interface{} {
	var req request.DetectRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return errorFrame{Error: handlers.ErrInvalidJsonPayload.Error()}
	}
	if err := req.Validate(); err != nil {
		return errorFrame{Error: err.Error()}
	}

	result, err := h.detector.Detect(ctx, req.GetText())
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			h.logger.WithError(err).Error("live detection failed")
		}
		_, message := handlers.ErrorStatus(err)
		return errorFrame{Error: message}
	}
	return response.NewDetectResponse(response.DetectResponseInput{
		AnalysisID:       result.ID,
		Verdict:          result.Verdict,
		TextHash:         result.TextHash,
		Cached:           result.Cached,
		ProcessingTimeMs: result.Duration.Milliseconds(),
		IncludeFeatures:  req.IncludeFeatures,
	})
}

func (h *liveDetectHandler) write(c *websocket.Conn, frame interface{}) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.WriteJSON(frame)
}

// keepAlive pings at half the idle timeout so a quiet but healthy client is
// not dropped. WriteControl is safe alongside the reader's writes.
func (h *liveDetectHandler) keepAlive(ctx context.Context, c *websocket.Conn) {
	ticker := time.NewTicker(h.idleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
