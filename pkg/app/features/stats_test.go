package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoments(t *testing.T) {
	xs := []float64{1, 2, 3, 4}

	assert.Equal(t, 2.5, mean(xs))
	assert.Equal(t, 1.25, variance(xs))
	assert.InDelta(t, math.Sqrt(1.25), stddev(xs), 1e-12)
	assert.InDelta(t, 0, skewness(xs), 1e-12)
}

func TestSkewnessAndKurtosis(t *testing.T) {
	// two-point distribution with p = 1/4
	xs := []float64{1, 1, 1, 10}

	assert.InDelta(t, 0.5/math.Sqrt(0.1875), skewness(xs), 1e-9)
	assert.InDelta(t, -2.0/3.0, excessKurtosis(xs), 1e-9)

	t.Run("constant input saturates to zero", func(t *testing.T) {
		c := []float64{3.5, 3.5, 3.5, 3.5}
		assert.Equal(t, 0.0, skewness(c))
		assert.Equal(t, 0.0, excessKurtosis(c))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, 0.0, skewness(nil))
		assert.Equal(t, 0.0, excessKurtosis(nil))
		assert.Equal(t, 0.0, mean(nil))
	})
}

func TestDiff(t *testing.T) {
	assert.Equal(t, []float64{1, 2, -4}, diff([]float64{1, 2, 4, 0}))
	assert.Nil(t, diff([]float64{1}))
}

func TestHistogramEntropy(t *testing.T) {
	t.Run("single value", func(t *testing.T) {
		assert.Equal(t, 0.0, histogramEntropy([]float64{5, 5, 5}))
	})

	t.Run("two extremes", func(t *testing.T) {
		assert.InDelta(t, math.Log(2), histogramEntropy([]float64{0, 1}), 1e-12)
	})

	t.Run("one value per bin", func(t *testing.T) {
		xs := make([]float64, 20)
		for i := range xs {
			xs[i] = float64(i)
		}
		assert.InDelta(t, math.Log(20), histogramEntropy(xs), 1e-12)
	})

	t.Run("max lands in last bin", func(t *testing.T) {
		counts := histogram([]float64{0, 0.5, 1}, 20)
		assert.Equal(t, 1, counts[0])
		assert.Equal(t, 1, counts[10])
		assert.Equal(t, 1, counts[19])
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0.0, histogramEntropy(nil))
	})
}

func TestLagOneAutocorrelation(t *testing.T) {
	assert.InDelta(t, 1.0, lagOneAutocorrelation([]float64{1, 2, 3, 4, 5}), 1e-12)
	assert.InDelta(t, -1.0, lagOneAutocorrelation([]float64{1, -1, 1, -1, 1}), 1e-12)
	assert.Equal(t, 0.0, lagOneAutocorrelation([]float64{7}))
	assert.Equal(t, 0.0, lagOneAutocorrelation([]float64{2, 2, 2, 2}))
	// two points leave a single value on each side
	assert.Equal(t, 0.0, lagOneAutocorrelation([]float64{1, 2}))
}

func TestClipLoss(t *testing.T) {
	assert.Equal(t, 0.0, clipLoss(math.NaN()))
	assert.Equal(t, 1e6, clipLoss(math.Inf(1)))
	assert.Equal(t, -1e6, clipLoss(math.Inf(-1)))
	assert.Equal(t, 1e6, clipLoss(5e7))
	assert.Equal(t, 2.5, clipLoss(2.5))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, summary{}, summarize(nil))

	s := summarize([]float64{4, 2, 6})
	assert.Equal(t, 4.0, s.Mean)
	assert.Equal(t, 6.0, s.Max)
	assert.Equal(t, 2.0, s.Min)
	assert.InDelta(t, math.Sqrt(8.0/3.0), s.Std, 1e-12)
}

func TestLogProb(t *testing.T) {
	lp, err := logProb([]float32{0, 0, 0, 0}, 2)
	assert.NoError(t, err)
	assert.InDelta(t, -math.Log(4), lp, 1e-12)

	// large logits must not overflow
	lp, err = logProb([]float32{1000, 1000}, 0)
	assert.NoError(t, err)
	assert.InDelta(t, -math.Log(2), lp, 1e-9)

	_, err = logProb([]float32{0, 0}, 2)
	assert.Error(t, err)
}
