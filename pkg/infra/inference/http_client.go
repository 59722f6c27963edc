package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

// HTTPClient talks to a language model sidecar over JSON/HTTP.
type HTTPClient struct {
	endpoint       Endpoint
	client         httpx.Client
	logger         *logrus.Logger
	circuitBreaker httpx.CircuitBreaker
	auth           sidecarAuth
	parsers        fastjson.ParserPool
}

func NewHTTPClient(logger *logrus.Logger, endpoint Endpoint, opts ...Option) lm.Client {
	o := buildOptions(endpoint.Name, opts)
	client := o.httpClient
	if client == nil {
		client = &http.Client{}
	}
	endpoint.BaseURL = strings.TrimRight(endpoint.BaseURL, "/")
	return &HTTPClient{
		endpoint:       endpoint,
		client:         client,
		logger:         logger,
		circuitBreaker: o.circuitBreaker,
		auth:           sidecarAuth{static: endpoint.Token, tokens: o.tokens},
	}
}

func (c *HTTPClient) Name() string {
	return c.endpoint.Name
}

func (c *HTTPClient) Encode(ctx context.Context, text string, maxLength int) (lm.TokenSequence, error) {
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

func (c *HTTPClient) executeTokenize(ctx context.Context, text string, maxLength int) (lm.TokenSequence, error) {
	body, err := json.Marshal(tokenizeRequest{
		Text:       text,
		MaxLength:  max(maxLength, 0),
		Truncation: maxLength > 0,
	})
	if err != nil {
		return lm.TokenSequence{}, fmt.Errorf("failed to marshal tokenize request: %w", err)
	}
	data, err := c.post(ctx, tokenizePath, body)
	if err != nil {
		return lm.TokenSequence{}, err
	}

	p := c.parsers.Get()
	defer c.parsers.Put(p)
	return parseTokenizeResponse(p, data, maxLength)
}

func (c *HTTPClient) Infer(ctx context.Context, tokens lm.TokenSequence) (lm.LogitTensor, error) {
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

func (c *HTTPClient) executeLogits(ctx context.Context, tokens lm.TokenSequence) (lm.LogitTensor, error) {
	body, err := json.Marshal(logitsRequest{
		InputIDs: tokens.IDs,
		Device:   c.endpoint.Device,
	})
	if err != nil {
		return lm.LogitTensor{}, fmt.Errorf("failed to marshal logits request: %w", err)
	}
	data, err := c.post(ctx, logitsPath, body)
	if err != nil {
		return lm.LogitTensor{}, err
	}

	p := c.parsers.Get()
	defer c.parsers.Put(p)
	logits, err := parseLogitsResponse(p, data)
	if err != nil {
		return lm.LogitTensor{}, err
	}
	if err := logits.CheckAligned(tokens); err != nil {
		return lm.LogitTensor{}, err
	}
	return logits, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.BaseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s health check: %w", c.endpoint.Name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s health check returned status %d", lm.ErrInferenceFailed, c.endpoint.Name, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) Close() error {
	return nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorize(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: %v", lm.ErrInferenceFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.WithError(err).WithField("error_type", fmt.Sprintf("%T", err)).Error("failed to call model sidecar")
		return nil, fmt.Errorf("%w: %s %s: %v", lm.ErrInferenceFailed, c.endpoint.Name, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s response read error: %v", lm.ErrInferenceFailed, path, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.auth.rejected()
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"model":       c.endpoint.Name,
			"path":        path,
			"status_code": resp.StatusCode,
		}).Error("model sidecar returned non-200 status")
		if len(data) > errorSnippetLength {
			data = data[:errorSnippetLength]
		}
		return nil, fmt.Errorf("%w: %s %s returned status %d: %s",
			lm.ErrInferenceFailed, c.endpoint.Name, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

func (c *HTTPClient) authorize(ctx context.Context, req *http.Request) error {
	token, err := c.auth.bearer(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}
