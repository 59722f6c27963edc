package server

import (
	"errors"
	"fmt"

	"github.com/NeuralTrust/TrustDetect/pkg/config"
	handlers "github.com/NeuralTrust/TrustDetect/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/TrustDetect/pkg/handlers/websocket"
	"github.com/NeuralTrust/TrustDetect/pkg/middleware"
	"github.com/NeuralTrust/TrustDetect/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	DetectServerDI struct {
		Config              *config.Config
		Logger              *logrus.Logger
		MiddlewareTransport *middleware.Transport
		WebsocketMiddleware middleware.Middleware
		HandlerTransport    handlers.HandlerTransport
		WSHandlerTransport  wsHandlers.HandlerTransport
	}
	DetectServer struct {
		*BaseServer
	}
)

func NewDetectServer(di DetectServerDI) *DetectServer {
	s := &DetectServer{
		BaseServer: NewBaseServer(di.Config, di.Logger),
	}
	s.WithRouters(router.NewDetectRouter(router.DetectRouterDeps{
		MiddlewareTransport: di.MiddlewareTransport,
		WebsocketMiddleware: di.WebsocketMiddleware,
		HandlerTransport:    di.HandlerTransport,
		WSHandlerTransport:  di.WSHandlerTransport,
	}))
	return s
}

func (s *DetectServer) Run() error {
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting detect server")
	return s.Router.Listen(addr)
}

func (s *DetectServer) Shutdown() error {
	return errors.Join(s.Router.Shutdown(), s.shutdownMetrics())
}
