package dependency_container

import (
	"errors"
	"fmt"

	appDetection "github.com/NeuralTrust/TrustDetect/pkg/app/detection"
	"github.com/NeuralTrust/TrustDetect/pkg/config"
	domainDetection "github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
	handlers "github.com/NeuralTrust/TrustDetect/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/TrustDetect/pkg/handlers/websocket"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/cache"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/classifier"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/inference"
	infraWebsocket "github.com/NeuralTrust/TrustDetect/pkg/infra/websocket"
	"github.com/NeuralTrust/TrustDetect/pkg/middleware"
	"github.com/sirupsen/logrus"
)

type Container struct {
	Runtime             appDetection.Runtime
	Analyzer            appDetection.Analyzer
	Detector            appDetection.Detector
	Cache               cache.Client
	JWTManager          jwt.Manager
	Semaphore           *infraWebsocket.Semaphore
	MiddlewareTransport *middleware.Transport
	WebsocketMiddleware middleware.Middleware
	HandlerTransport    handlers.HandlerTransport
	WSHandlerTransport  wsHandlers.HandlerTransport
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewContainer(di ContainerDI) (*Container, error) {
	runtime := NewRuntime(di.Logger, di.Cfg)

	analyzer, err := appDetection.NewAnalyzer(di.Logger, runtime, NewAnalyzerConfig(di.Cfg))
	if err != nil {
		_ = runtime.Close()
		return nil, fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	c := &Container{
		Runtime:  runtime,
		Analyzer: analyzer,
	}

	var verdictCache cache.VerdictCache
	if di.Cfg.Cache.Enabled && runtime.Ready() {
		cacheInstance, err := cache.NewClient(cache.Config{
			Host:     di.Cfg.Redis.Host,
			Port:     di.Cfg.Redis.Port,
			Password: di.Cfg.Redis.Password,
			DB:       di.Cfg.Redis.DB,
			TLS:      di.Cfg.Redis.TLS,
		}, di.Logger)
		if err != nil {
			di.Logger.WithError(err).Error("verdict cache unavailable, serving without it")
		} else {
			c.Cache = cacheInstance
			verdictCache = cache.NewVerdictCache(cacheInstance, di.Logger, analyzer.CacheKeyspace(), di.Cfg.Cache.TTL)
		}
	}
	c.Detector = appDetection.NewDetector(di.Logger, analyzer, verdictCache)

	// middleware
	c.MiddlewareTransport = middleware.NewTransport(
		middleware.NewPanicRecoverMiddleware(di.Logger),
		middleware.NewRequestLogMiddleware(di.Logger),
		middleware.NewMetricsMiddleware(),
	)
	if di.Cfg.Auth.Enabled {
		c.JWTManager = jwt.NewJwtManager(di.Cfg.Server.SecretKey)
		c.MiddlewareTransport.RegisterMiddleware(middleware.NewAuthMiddleware(di.Logger, c.JWTManager))
	}

	c.Semaphore = infraWebsocket.NewSemaphore(infraWebsocket.WithMaxConnections(di.Cfg.WebSocket.MaxConnections))
	c.WebsocketMiddleware = middleware.NewWebsocketMiddleware(di.Logger, c.Semaphore)

	// handlers
	c.HandlerTransport = &handlers.HandlerTransportDTO{
		DetectHandler: handlers.NewDetectHandler(handlers.DetectHandlerDeps{
			Logger:   di.Logger,
			Detector: c.Detector,
		}),
		ReadyHandler:      handlers.NewReadyHandler(di.Logger, c.Detector),
		GetVersionHandler: handlers.NewGetVersionHandler(),
	}
	c.WSHandlerTransport = &wsHandlers.HandlerTransportDTO{
		LiveDetectHandler: wsHandlers.NewLiveDetectHandler(wsHandlers.LiveDetectHandlerDeps{
			Logger:      di.Logger,
			Detector:    c.Detector,
			IdleTimeout: di.Cfg.WebSocket.IdleTimeout,
		}),
	}

	return c, nil
}

// NewRuntime loads the classifier and connects both model sidecars. Failures
// are logged and produce an unavailable runtime so the service still starts
// and answers with not-ready verdicts.
func NewRuntime(logger *logrus.Logger, cfg *config.Config) appDetection.Runtime {
	opts := []classifier.Option{
		classifier.WithExpectedSHA256(cfg.Classifier.SHA256),
		classifier.WithExpectedFeatures(cfg.Classifier.ExpectedFeatures),
	}
	if cfg.Classifier.StrictNames {
		opts = append(opts, classifier.WithFeatureNames(domainDetection.FeatureNames()))
	}
	ensemble, err := classifier.Load(cfg.Classifier.ArtifactPath, opts...)
	if err != nil {
		logger.WithError(err).WithField("artifact", cfg.Classifier.ArtifactPath).Error("failed to load classifier")
		return appDetection.Unavailable(fmt.Sprintf("classifier: %v", err))
	}
	summary := ensemble.Summary()
	logger.WithFields(logrus.Fields{
		"artifact": cfg.Classifier.ArtifactPath,
		"sha256":   summary.Digest,
		"rounds":   summary.Rounds,
		"trees":    summary.ActiveTrees,
	}).Info("classifier loaded")

	surprisal, err := inference.NewClient(logger, cfg.Models.Surprisal)
	if err != nil {
		logger.WithError(err).Error("failed to initialize surprisal model client")
		return appDetection.Unavailable(fmt.Sprintf("surprisal model: %v", err))
	}
	dual, err := inference.NewClient(logger, cfg.Models.DualAlignment)
	if err != nil {
		_ = surprisal.Close()
		logger.WithError(err).Error("failed to initialize dual alignment model client")
		return appDetection.Unavailable(fmt.Sprintf("dual alignment model: %v", err))
	}

	logger.WithFields(logrus.Fields{
		"surprisal":        cfg.Models.Surprisal.Name,
		"surprisal_device": cfg.Models.Surprisal.Device,
		"dual":             cfg.Models.DualAlignment.Name,
		"dual_device":      cfg.Models.DualAlignment.Device,
		"placement":        cfg.Placement.Mode,
	}).Info("model clients initialized")
	return appDetection.NewRuntime(surprisal, dual, ensemble)
}

func NewAnalyzerConfig(cfg *config.Config) appDetection.Config {
	out := appDetection.DefaultConfig()
	out.MinWords = cfg.Detection.MinWords
	if cfg.Detection.Prompt != "" {
		out.Prompt = cfg.Detection.Prompt
	}
	out.Thresholds = domainDetection.Thresholds{
		LikelyAI:   cfg.Detection.Thresholds.LikelyAI,
		PossiblyAI: cfg.Detection.Thresholds.PossiblyAI,
	}
	if cfg.Models.Surprisal.MaxLength > 0 {
		out.SurprisalMaxLength = cfg.Models.Surprisal.MaxLength
	}
	if cfg.Models.DualAlignment.MaxLength > 0 {
		out.DualMaxLength = cfg.Models.DualAlignment.MaxLength
	}
	out.SurprisalDevice = cfg.Models.Surprisal.Device
	out.DualDevice = cfg.Models.DualAlignment.Device
	out.MaxConcurrency = cfg.Detection.MaxConcurrency
	out.Timeout = cfg.Detection.Timeout
	return out
}

func (c *Container) Close() error {
	errs := []error{c.Runtime.Close()}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	return errors.Join(errs...)
}
