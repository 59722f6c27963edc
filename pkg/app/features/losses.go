package features

import (
	"fmt"
	"math"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
)

// logProb returns log softmax(row)[target], shifted by the row max so large
// logits do not overflow.
func logProb(row []float32, target int) (float64, error) {
	if target < 0 || target >= len(row) {
		return 0, fmt.Errorf("%w: token %d outside vocabulary of %d", lm.ErrShapeMismatch, target, len(row))
	}
	peak := math.Inf(-1)
	for _, v := range row {
		peak = math.Max(peak, float64(v))
	}
	var sum float64
	for _, v := range row {
		sum += math.Exp(float64(v) - peak)
	}
	return float64(row[target]) - peak - math.Log(sum), nil
}

// SurprisalCurve scores every token after the first with the logits of the
// position before it. The curve has len(tokens)-1 entries.
func SurprisalCurve(tokens lm.TokenSequence, logits lm.LogitTensor) ([]float64, error) {
	if err := logits.CheckAligned(tokens); err != nil {
		return nil, err
	}
	if tokens.Len() < 2 {
		return nil, nil
	}
	curve := make([]float64, tokens.Len()-1)
	for i := range curve {
		lp, err := logProb(logits.Row(i), tokens.IDs[i+1])
		if err != nil {
			return nil, err
		}
		curve[i] = -lp
	}
	return curve, nil
}

// AlignedLosses computes per-token cross-entropy over the span [start, end)
// two ways. forward scores token i with the logits at i-1, the causal next
// token loss. same scores token i with the logits at i itself. start must be
// at least 1 so every forward pair has a preceding row.
func AlignedLosses(tokens lm.TokenSequence, logits lm.LogitTensor, start, end int) (forward, same []float64, err error) {
	if err := logits.CheckAligned(tokens); err != nil {
		return nil, nil, err
	}
	if start < 1 || start > end || end > tokens.Len() {
		return nil, nil, fmt.Errorf("%w: span [%d,%d) over %d tokens", lm.ErrShapeMismatch, start, end, tokens.Len())
	}

	n := end - start
	forward = make([]float64, n)
	same = make([]float64, n)
	for i := start; i < end; i++ {
		target := tokens.IDs[i]

		lp, err := logProb(logits.Row(i-1), target)
		if err != nil {
			return nil, nil, err
		}
		forward[i-start] = -lp

		lp, err = logProb(logits.Row(i), target)
		if err != nil {
			return nil, nil, err
		}
		same[i-start] = -lp
	}
	return forward, same, nil
}
