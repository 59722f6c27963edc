package detection_test

import (
	"math"
	"testing"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureNames(t *testing.T) {
	names := detection.FeatureNames()
	require.Len(t, names, detection.FeatureCount)

	assert.Equal(t, "mean_surprisal", names[0])
	assert.Equal(t, "compression_ratio", names[10])
	assert.Equal(t, "fce_mean_p1", names[11])
	assert.Equal(t, "bce_std_p1", names[18])
	assert.Equal(t, "fce_mean_p2", names[19])
	assert.Equal(t, "bce_std_p9", names[82])

	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate name %s", n)
		seen[n] = true
	}
}

func TestAssemble(t *testing.T) {
	var s detection.SurprisalFeatures
	var d detection.DualFeatures
	for i := range s {
		s[i] = float64(i)
	}
	for i := range d {
		d[i] = float64(100 + i)
	}

	v := detection.Assemble(s, d)

	assert.Equal(t, 0.0, v[0])
	assert.Equal(t, 10.0, v[10])
	assert.Equal(t, 100.0, v[11])
	assert.Equal(t, 171.0, v[82])
	assert.Equal(t, s, v.Surprisal())
	assert.Equal(t, d, v.Dual())
	assert.Equal(t, -1, v.Finite())

	v[40] = math.NaN()
	assert.Equal(t, 40, v.Finite())
}

func TestThresholds_Classify(t *testing.T) {
	th := detection.DefaultThresholds()

	tests := []struct {
		p    float64
		want detection.Label
	}{
		{0.95, detection.LabelLikelyAI},
		{0.7001, detection.LabelLikelyAI},
		{0.7, detection.LabelPossiblyAI},
		{0.6, detection.LabelPossiblyAI},
		{0.5, detection.LabelLikelyHuman},
		{0.0, detection.LabelLikelyHuman},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Classify(tt.p), "p=%v", tt.p)
	}
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, detection.DefaultThresholds().Validate())
	assert.Error(t, detection.Thresholds{LikelyAI: 0.4, PossiblyAI: 0.6}.Validate())
	assert.Error(t, detection.Thresholds{LikelyAI: 1.5, PossiblyAI: 0.5}.Validate())
}

func TestNewVerdict(t *testing.T) {
	th := detection.DefaultThresholds()

	t.Run("likely ai", func(t *testing.T) {
		v := detection.NewVerdict(0.91234, th)
		assert.Equal(t, detection.LabelLikelyAI, v.Label)
		assert.Equal(t, "Likely AI-generated (Confidence: 91.23%)", v.Message)
		assert.Equal(t, 0.912, v.AIProbability)
		assert.InDelta(t, 91.234, v.Distribution.AI, 1e-9)
		assert.InDelta(t, 8.766, v.Distribution.Human, 1e-9)
		assert.True(t, v.Scored())
	})

	t.Run("possibly ai", func(t *testing.T) {
		v := detection.NewVerdict(0.6, th)
		assert.Equal(t, "Possibly AI-generated (Confidence: 60.00%)", v.Message)
	})

	t.Run("human reports human confidence", func(t *testing.T) {
		v := detection.NewVerdict(0.2, th)
		assert.Equal(t, detection.LabelLikelyHuman, v.Label)
		assert.Equal(t, "Likely Human-written (Confidence: 80.00%)", v.Message)
	})

	t.Run("label uses unrounded probability", func(t *testing.T) {
		v := detection.NewVerdict(0.7004, th)
		assert.Equal(t, detection.LabelLikelyAI, v.Label)
		assert.Equal(t, 0.7, v.AIProbability)
	})
}

func TestFixedVerdicts(t *testing.T) {
	v := detection.InsufficientInputVerdict(15)
	assert.Equal(t, "Please enter some text with at least 15 words.", v.Message)
	assert.Zero(t, v.AIProbability)
	assert.Equal(t, detection.Distribution{}, v.Distribution)
	assert.False(t, v.Scored())

	nr := detection.NotReadyVerdict()
	assert.Equal(t, detection.LabelNotReady, nr.Label)
	assert.False(t, nr.Scored())
}
