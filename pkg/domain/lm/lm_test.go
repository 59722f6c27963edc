package lm_test

import (
	"testing"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogitTensor(t *testing.T) {
	t.Run("valid shape", func(t *testing.T) {
		l, err := lm.NewLogitTensor(2, 3, []float32{1, 2, 3, 4, 5, 6})
		require.NoError(t, err)
		assert.Equal(t, []float32{4, 5, 6}, l.Row(1))
	})

	t.Run("data length mismatch", func(t *testing.T) {
		_, err := lm.NewLogitTensor(2, 3, []float32{1, 2, 3})
		assert.ErrorIs(t, err, lm.ErrShapeMismatch)
	})

	t.Run("zero vocabulary", func(t *testing.T) {
		_, err := lm.NewLogitTensor(1, 0, nil)
		assert.ErrorIs(t, err, lm.ErrShapeMismatch)
	})
}

func TestLogitTensor_CheckAligned(t *testing.T) {
	l, err := lm.NewLogitTensor(2, 2, []float32{0, 0, 0, 0})
	require.NoError(t, err)

	assert.NoError(t, l.CheckAligned(lm.TokenSequence{IDs: []int{1, 2}}))
	assert.ErrorIs(t, l.CheckAligned(lm.TokenSequence{IDs: []int{1, 2, 3}}), lm.ErrShapeMismatch)
}

func TestTokenSequence_Concat(t *testing.T) {
	prompt := lm.TokenSequence{IDs: []int{1, 2}, OriginalLength: 2}
	text := lm.TokenSequence{IDs: []int{3, 4, 5}, Truncated: true, OriginalLength: 9}

	joined := prompt.Concat(text)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, joined.IDs)
	assert.True(t, joined.Truncated)
	assert.Equal(t, 11, joined.OriginalLength)
	// inputs untouched
	assert.Equal(t, []int{1, 2}, prompt.IDs)
}
