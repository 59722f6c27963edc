package features

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCompletionPrompt = "Complete the following text: "
	DefaultDualMaxLength    = 2000
)

var ErrEmptyPrompt = errors.New("completion prompt produced no tokens")

type DualAlignmentExtractor interface {
	Extract(ctx context.Context, text string) (detection.DualFeatures, error)
}

type dualAlignmentExtractor struct {
	logger    *logrus.Logger
	client    lm.Client
	prompt    string
	maxLength int
}

func NewDualAlignmentExtractor(
	logger *logrus.Logger,
	client lm.Client,
	prompt string,
	maxLength int,
) DualAlignmentExtractor {
	if prompt == "" {
		prompt = DefaultCompletionPrompt
	}
	if maxLength <= 0 {
		maxLength = DefaultDualMaxLength
	}
	return &dualAlignmentExtractor{
		logger:    logger,
		client:    client,
		prompt:    prompt,
		maxLength: maxLength,
	}
}

func (e *dualAlignmentExtractor) Extract(ctx context.Context, text string) (detection.DualFeatures, error) {
	promptTokens, err := e.client.Encode(ctx, e.prompt, 0)
	if err != nil {
		return detection.DualFeatures{}, fmt.Errorf("prompt tokenize: %w", err)
	}
	if promptTokens.Len() == 0 {
		return detection.DualFeatures{}, ErrEmptyPrompt
	}

	textTokens, err := e.client.Encode(ctx, text, e.maxLength)
	if err != nil {
		return detection.DualFeatures{}, fmt.Errorf("dual alignment tokenize: %w", err)
	}
	if textTokens.Truncated {
		reportTruncation(e.logger, e.client.Name(), textTokens, e.maxLength)
	}

	combined := promptTokens.Concat(textTokens)

	logits, err := e.client.Infer(ctx, combined)
	if err != nil {
		return detection.DualFeatures{}, fmt.Errorf("dual alignment inference: %w", err)
	}

	forward, same, err := AlignedLosses(combined, logits, promptTokens.Len(), combined.Len())
	if err != nil {
		return detection.DualFeatures{}, fmt.Errorf("dual alignment losses: %w", err)
	}
	return WindowStatistics(forward, same), nil
}

// WindowSplit is the first index kept when dropping p tenths of n values.
func WindowSplit(n, p int) int {
	return n * p / 10
}

// WindowStatistics summarizes the tails of both loss sequences after dropping
// 10%..90% of the head. Each window contributes mean, max, min and std of the
// forward losses followed by the same four of the same-position losses.
// Empty windows contribute zeros.
func WindowStatistics(forward, same []float64) detection.DualFeatures {
	var out detection.DualFeatures
	n := len(forward)
	for p := 1; p <= detection.WindowCount; p++ {
		split := WindowSplit(n, p)

		f := summarize(clipAll(tail(forward, split)))
		b := summarize(clipAll(tail(same, split)))

		base := (p - 1) * detection.WindowStatCount
		copy(out[base:base+detection.WindowStatCount], []float64{
			f.Mean, f.Max, f.Min, f.Std,
			b.Mean, b.Max, b.Min, b.Std,
		})
	}
	for i := range out {
		out[i] = finiteOrZero(out[i])
	}
	return out
}

func tail(xs []float64, from int) []float64 {
	if from >= len(xs) {
		return nil
	}
	return xs[from:]
}

func clipAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = clipLoss(x)
	}
	return out
}
