package inference

import (
	"fmt"

	"github.com/NeuralTrust/TrustDetect/pkg/config"
	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/auth/oauth"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustDetect/pkg/version"
	"github.com/sirupsen/logrus"
)

// NewClient builds the client for one configured model, picking the
// transport and wrapping every call in a breaker named after the model.
func NewClient(logger *logrus.Logger, cfg config.ModelConfig, opts ...Option) (lm.Client, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("model name is required")
	}
	tlsConfig, err := config.BuildClientTLSConfig(cfg.TLS)
	if err != nil {
		return nil, fmt.Errorf("%s tls: %w", cfg.Name, err)
	}
	endpoint := Endpoint{
		Name:    cfg.Name,
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Device:  cfg.Device,
	}

	breaker := httpx.NewLoggedCircuitBreaker(logger, cfg.Name, cfg.BreakerTimeout, cfg.BreakerMaxFailures)
	opts = append([]Option{WithCircuitBreaker(breaker)}, opts...)
	if cfg.OAuth.TokenURL != "" {
		tokens := oauth.NewTokenSource(oauth.NewTokenClient(oauth.WithTimeout(cfg.Timeout)), oauth.Credentials{
			TokenURL:     cfg.OAuth.TokenURL,
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			UseBasicAuth: cfg.OAuth.UseBasicAuth,
			Scopes:       cfg.OAuth.Scopes,
			Audience:     cfg.OAuth.Audience,
		})
		opts = append([]Option{WithTokenSource(tokens)}, opts...)
	}

	switch cfg.Transport {
	case config.TransportGRPC:
		return NewGRPCClient(logger, endpoint, tlsConfig, opts...)
	case config.TransportHTTP, "":
		httpClient := httpx.NewFastHTTPClient(
			httpx.WithTimeout(cfg.Timeout),
			httpx.WithTLSConfig(tlsConfig),
			httpx.WithUserAgent(version.AppName+"/"+version.Version),
		)
		opts = append([]Option{WithHTTPClient(httpClient)}, opts...)
		return NewHTTPClient(logger, endpoint, opts...), nil
	default:
		return nil, fmt.Errorf("unknown model transport: %s", cfg.Transport)
	}
}
