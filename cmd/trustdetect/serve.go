package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/TrustDetect/pkg/dependency_container"
	infraLogger "github.com/NeuralTrust/TrustDetect/pkg/infra/logger"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/prometheus"
	"github.com/NeuralTrust/TrustDetect/pkg/server"
	"github.com/NeuralTrust/TrustDetect/pkg/version"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the detection HTTP and websocket API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, logCloser := infraLogger.NewLogger("trustdetect")
	defer logCloser.Close()

	prometheus.Initialize(prometheus.MetricsConfig{
		EnableLatency:          cfg.Metrics.EnableLatency,
		EnableInferenceLatency: cfg.Metrics.EnableInference,
		EnablePerRoute:         cfg.Metrics.EnablePerRoute,
		EnableConnections:      cfg.Metrics.EnableConnections,
	})

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Error("failed to initialize dependencies")
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.WithError(err).Warn("failed to release dependencies")
		}
	}()

	if !container.Runtime.Ready() {
		logger.WithField("reason", container.Runtime.Reason()).Warn("starting without a ready runtime, analyses will be answered as not ready")
	}

	srv := server.NewDetectServer(server.DetectServerDI{
		Config:              cfg,
		Logger:              logger,
		MiddlewareTransport: container.MiddlewareTransport,
		WebsocketMiddleware: container.WebsocketMiddleware,
		HandlerTransport:    container.HandlerTransport,
		WSHandlerTransport:  container.WSHandlerTransport,
	})

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("version", version.Version).Info("trustdetect starting")
		serveErr <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			logger.WithError(err).Error("server failed")
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
		return err
	}
	logger.Info("server gracefully stopped")
	return nil
}
