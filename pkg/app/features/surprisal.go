package features

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSurprisalMaxLength = 1024

	minCurveLength         = 10
	minLogLikelihoodLength = 3
)

type SurprisalExtractor interface {
	Extract(ctx context.Context, text string) (detection.SurprisalFeatures, error)
}

type surprisalExtractor struct {
	logger    *logrus.Logger
	client    lm.Client
	maxLength int
}

func NewSurprisalExtractor(logger *logrus.Logger, client lm.Client, maxLength int) SurprisalExtractor {
	if maxLength <= 0 {
		maxLength = DefaultSurprisalMaxLength
	}
	return &surprisalExtractor{
		logger:    logger,
		client:    client,
		maxLength: maxLength,
	}
}

func (e *surprisalExtractor) Extract(ctx context.Context, text string) (detection.SurprisalFeatures, error) {
	tokens, err := e.client.Encode(ctx, text, e.maxLength)
	if err != nil {
		return detection.SurprisalFeatures{}, fmt.Errorf("surprisal tokenize: %w", err)
	}
	if tokens.Truncated {
		reportTruncation(e.logger, e.client.Name(), tokens, e.maxLength)
	}

	logits, err := e.client.Infer(ctx, tokens)
	if err != nil {
		return detection.SurprisalFeatures{}, fmt.Errorf("surprisal inference: %w", err)
	}

	curve, err := SurprisalCurve(tokens, logits)
	if err != nil {
		return detection.SurprisalFeatures{}, fmt.Errorf("surprisal curve: %w", err)
	}

	ratio, err := CompressionRatio(text)
	if err != nil {
		return detection.SurprisalFeatures{}, err
	}
	return SurprisalStatistics(curve, ratio), nil
}

// SurprisalStatistics reduces a surprisal curve to the eleven surprisal
// features. Curves shorter than ten points yield all zeros, compression
// ratio included.
func SurprisalStatistics(curve []float64, compressionRatio float64) detection.SurprisalFeatures {
	var out detection.SurprisalFeatures
	if len(curve) < minCurveLength || len(curve) < minLogLikelihoodLength {
		return out
	}

	logLikelihood := make([]float64, len(curve))
	for i, s := range curve {
		logLikelihood[i] = -s
	}

	d1 := diff(curve)
	// second-order terms are taken on the log-likelihood sequence
	d2 := diff(diff(logLikelihood))

	out = detection.SurprisalFeatures{
		mean(curve),
		stddev(curve),
		variance(curve),
		skewness(curve),
		excessKurtosis(curve),
		mean(d1),
		stddev(d1),
		variance(d2),
		histogramEntropy(d2),
		lagOneAutocorrelation(d2),
		compressionRatio,
	}
	for i := range out {
		out[i] = finiteOrZero(out[i])
	}
	return out
}

func reportTruncation(logger *logrus.Logger, model string, tokens lm.TokenSequence, maxLength int) {
	logger.WithFields(logrus.Fields{
		"model":           model,
		"original_tokens": tokens.OriginalLength,
		"max_length":      maxLength,
	}).Warn("input truncated to model context")
	prometheus.TruncationsTotal.WithLabelValues(model).Inc()
}
