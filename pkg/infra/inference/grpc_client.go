package inference

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// logits for long windows exceed the 4MB gRPC default
const maxGRPCMessageSize = 1 << 30

// GRPCClient talks to a language model sidecar exposing the
// trustdetect.lm.v1.LanguageModel service. Messages are google.protobuf.Struct
// values carrying the same fields as the HTTP transport.
type GRPCClient struct {
	endpoint       Endpoint
	conn           *grpc.ClientConn
	health         grpc_health_v1.HealthClient
	logger         *logrus.Logger
	circuitBreaker httpx.CircuitBreaker
	auth           sidecarAuth
}

// NewGRPCClient creates the connection lazily; the first call or Ping dials.
// A nil tlsConfig means plaintext.
func NewGRPCClient(logger *logrus.Logger, endpoint Endpoint, tlsConfig *tls.Config, opts ...Option) (lm.Client, error) {
	o := buildOptions(endpoint.Name, opts)

	creds := insecure.NewCredentials()
	if tlsConfig != nil {
		creds = credentials.NewTLS(tlsConfig)
	}
	dialOptions := append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxGRPCMessageSize),
			grpc.MaxCallSendMsgSize(maxGRPCMessageSize),
		),
	}, o.dialOptions...)

	conn, err := grpc.NewClient(grpcTarget(endpoint.BaseURL), dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for %s: %w", endpoint.Name, err)
	}
	return &GRPCClient{
		endpoint:       endpoint,
		conn:           conn,
		health:         grpc_health_v1.NewHealthClient(conn),
		logger:         logger,
		circuitBreaker: o.circuitBreaker,
		auth:           sidecarAuth{static: endpoint.Token, tokens: o.tokens},
	}, nil
}

func grpcTarget(baseURL string) string {
	for _, scheme := range []string{"grpc://", "grpcs://", "http://", "https://"} {
		if strings.HasPrefix(baseURL, scheme) {
			return strings.TrimRight(strings.TrimPrefix(baseURL, scheme), "/")
		}
	}
	return baseURL
}

func (c *GRPCClient) Name() string {
	return c.endpoint.Name
}

func (c *GRPCClient) Encode(ctx context.Context, text string, maxLength int) (lm.TokenSequence, error) {
	var result lm.TokenSequence
	var err error

	start := time.Now()
	err = c.circuitBreaker.Execute(func() error {
		result, err = c.executeTokenize(ctx, text, maxLength)
		return err
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).WithField("model", c.endpoint.Name).Error("tokenize failed (circuit breaker)")
		}
		return lm.TokenSequence{}, err
	}
	observe(c.endpoint.Name, "tokenize", start)
	return result, nil
}

func (c *GRPCClient) executeTokenize(ctx context.Context, text string, maxLength int) (lm.TokenSequence, error) {
	req, err := structpb.NewStruct(map[string]any{
		"text":       text,
		"max_length": max(maxLength, 0),
		"truncation": maxLength > 0,
	})
	if err != nil {
		return lm.TokenSequence{}, fmt.Errorf("failed to build tokenize request: %w", err)
	}
	callCtx, err := c.outgoing(ctx)
	if err != nil {
		return lm.TokenSequence{}, err
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(callCtx, tokenizeMethod, req, resp); err != nil {
		return lm.TokenSequence{}, c.callError(ctx, "Tokenize", err)
	}

	fields := resp.GetFields()
	rawIDs := fields["input_ids"].GetListValue()
	if rawIDs == nil {
		return lm.TokenSequence{}, fmt.Errorf("%w: tokenize response has no input_ids", lm.ErrInferenceFailed)
	}
	ids := make([]int, len(rawIDs.GetValues()))
	for i, v := range rawIDs.GetValues() {
		id, ok := integral(v)
		if !ok || id < 0 {
			return lm.TokenSequence{}, fmt.Errorf("%w: input_ids[%d] is not a token id", lm.ErrInferenceFailed, i)
		}
		ids[i] = id
	}
	numTokens, _ := integral(fields["num_tokens"])
	return finishTokens(ids, fields["truncated"].GetBoolValue(), numTokens, maxLength), nil
}

func (c *GRPCClient) Infer(ctx context.Context, tokens lm.TokenSequence) (lm.LogitTensor, error) {
	var result lm.LogitTensor
	var err error

	start := time.Now()
	err = c.circuitBreaker.Execute(func() error {
		result, err = c.executeLogits(ctx, tokens)
		return err
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"model":  c.endpoint.Name,
				"tokens": tokens.Len(),
			}).Error("inference failed (circuit breaker)")
		}
		return lm.LogitTensor{}, err
	}
	observe(c.endpoint.Name, "logits", start)
	return result, nil
}

func (c *GRPCClient) executeLogits(ctx context.Context, tokens lm.TokenSequence) (lm.LogitTensor, error) {
	ids := make([]*structpb.Value, len(tokens.IDs))
	for i, id := range tokens.IDs {
		ids[i] = structpb.NewNumberValue(float64(id))
	}
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"input_ids": structpb.NewListValue(&structpb.ListValue{Values: ids}),
		"device":    structpb.NewStringValue(c.endpoint.Device),
	}}
	callCtx, err := c.outgoing(ctx)
	if err != nil {
		return lm.LogitTensor{}, err
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(callCtx, logitsMethod, req, resp); err != nil {
		return lm.LogitTensor{}, c.callError(ctx, "Logits", err)
	}

	fields := resp.GetFields()
	shape := fields["shape"].GetListValue().GetValues()
	if len(shape) != 2 {
		return lm.LogitTensor{}, fmt.Errorf("%w: logits shape must have two dimensions", lm.ErrShapeMismatch)
	}
	rows, okRows := integral(shape[0])
	vocab, okVocab := integral(shape[1])
	if !okRows || !okVocab {
		return lm.LogitTensor{}, fmt.Errorf("%w: logits shape is not integral", lm.ErrShapeMismatch)
	}
	flat := fields["logits"].GetListValue().GetValues()
	values := make([]float32, len(flat))
	for i, v := range flat {
		values[i] = float32(v.GetNumberValue())
	}
	logits, err := lm.NewLogitTensor(rows, vocab, values)
	if err != nil {
		return lm.LogitTensor{}, err
	}
	if err := logits.CheckAligned(tokens); err != nil {
		return lm.LogitTensor{}, err
	}
	return logits, nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	callCtx, err := c.outgoing(ctx)
	if err != nil {
		return err
	}
	resp, err := c.health.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return fmt.Errorf("%s health check: %w", c.endpoint.Name, err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s is %s", lm.ErrInferenceFailed, c.endpoint.Name, resp.GetStatus())
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) outgoing(ctx context.Context) (context.Context, error) {
	token, err := c.auth.bearer(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lm.ErrInferenceFailed, err)
	}
	if token == "" {
		return ctx, nil
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token), nil
}

func (c *GRPCClient) callError(ctx context.Context, method string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	switch status.Code(err) {
	case codes.Canceled:
		return context.Canceled
	case codes.Unauthenticated:
		c.auth.rejected()
	}
	return fmt.Errorf("%w: %s %s: %s", lm.ErrInferenceFailed, c.endpoint.Name, method, status.Convert(err).Message())
}

func integral(v *structpb.Value) (int, bool) {
	if v == nil {
		return 0, false
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, false
	}
	return int(n.NumberValue), true
}
