package router

import (
	"net/http"
	"time"

	handlers "github.com/NeuralTrust/TrustDetect/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/TrustDetect/pkg/handlers/websocket"
	"github.com/NeuralTrust/TrustDetect/pkg/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

const (
	HealthPath      = "/health"
	AdminHealthPath = "/__/health"
	ReadyPath       = "/ready"
	VersionPath     = "/version"
	DetectPath      = "/detect"
	LiveDetectPath  = "/ws/detect"
)

type DetectRouterDeps struct {
	MiddlewareTransport *middleware.Transport
	// WebsocketMiddleware guards the upgrade route only.
	WebsocketMiddleware middleware.Middleware
	HandlerTransport    handlers.HandlerTransport
	WSHandlerTransport  wsHandlers.HandlerTransport
}

type detectRouter struct {
	middlewareTransport *middleware.Transport
	websocketMiddleware middleware.Middleware
	handlerTransport    handlers.HandlerTransport
	wsHandlerTransport  wsHandlers.HandlerTransport
}

func NewDetectRouter(deps DetectRouterDeps) ServerRouter {
	return &detectRouter{
		middlewareTransport: deps.MiddlewareTransport,
		websocketMiddleware: deps.WebsocketMiddleware,
		handlerTransport:    deps.HandlerTransport,
		wsHandlerTransport:  deps.WSHandlerTransport,
	}
}

func (r *detectRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport == nil || r.wsHandlerTransport == nil {
		return ErrInvalidHandlerTransport
	}
	handlerTransport, ok := r.handlerTransport.GetTransport().(*handlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}
	wsHandlerTransport, ok := r.wsHandlerTransport.GetTransport().(*wsHandlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}

	router.Get(HealthPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.Get(AdminHealthPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.Get(ReadyPath, handlerTransport.ReadyHandler.Handle)
	router.Get(VersionPath, handlerTransport.GetVersionHandler.Handle)

	router.Static("/swagger.json", "./docs/swagger.json")
	router.Get("/docs/*", swagger.New(swagger.Config{
		URL: "/swagger.json",
	}))

	v1 := router.Group("/v1")
	{
		if r.middlewareTransport != nil {
			if mws := r.middlewareTransport.GetMiddlewares(); len(mws) > 0 {
				v1.Use(mws...)
			}
		}

		v1.Post(DetectPath, handlerTransport.DetectHandler.Handle)

		live := []fiber.Handler{}
		if r.websocketMiddleware != nil {
			live = append(live, r.websocketMiddleware.Middleware())
		}
		live = append(live, websocket.New(
			wsHandlerTransport.LiveDetectHandler.Handle,
			websocket.Config{
				HandshakeTimeout: 15 * time.Second,
				ReadBufferSize:   4096,
				WriteBufferSize:  4096,
			},
		))
		v1.Get(LiveDetectPath, live...)
	}
	return nil
}
