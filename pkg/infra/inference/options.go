package inference

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/TrustDetect/pkg/infra/auth/oauth"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/httpx"
	"google.golang.org/grpc"
)

// Endpoint identifies one language model sidecar.
type Endpoint struct {
	Name    string
	BaseURL string
	Token   string
	// Device is forwarded to the sidecar so it runs the model on the
	// accelerator chosen by the placement configuration.
	Device string
}

type options struct {
	httpClient     httpx.Client
	circuitBreaker httpx.CircuitBreaker
	dialOptions    []grpc.DialOption
	tokens         oauth.TokenSource
}

// Option is a function that configures a model client
type Option func(*options)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client httpx.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithCircuitBreaker replaces the default breaker around every sidecar call.
func WithCircuitBreaker(breaker httpx.CircuitBreaker) Option {
	return func(o *options) {
		if breaker != nil {
			o.circuitBreaker = breaker
		}
	}
}

// WithDialOptions appends gRPC dial options. Ignored by the HTTP transport.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *options) {
		o.dialOptions = append(o.dialOptions, opts...)
	}
}

// WithTokenSource authenticates with tokens from an identity provider
// instead of the endpoint's static token.
func WithTokenSource(tokens oauth.TokenSource) Option {
	return func(o *options) {
		o.tokens = tokens
	}
}

func buildOptions(name string, opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.circuitBreaker == nil {
		o.circuitBreaker = httpx.NewCircuitBreaker(name, defaultBreakerTimeout, defaultBreakerMaxFailures)
	}
	return o
}

type sidecarAuth struct {
	static string
	tokens oauth.TokenSource
}

func (c sidecarAuth) bearer(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return c.static, nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to obtain sidecar token: %w", err)
	}
	return token, nil
}

// rejected drops a cached token the sidecar refused.
func (c sidecarAuth) rejected() {
	if invalidator, ok := c.tokens.(interface{ Invalidate() }); ok {
		invalidator.Invalidate()
	}
}
