package lm

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInferenceFailed = errors.New("language model inference failed")
	ErrShapeMismatch   = errors.New("logit tensor shape mismatch")
)

// TokenSequence is the output of a tokenizer call. IDs are already cut to the
// requested max length; Truncated reports whether anything was dropped.
type TokenSequence struct {
	IDs            []int
	Truncated      bool
	OriginalLength int
}

func (t TokenSequence) Len() int {
	return len(t.IDs)
}

// Concat returns a new sequence holding t followed by other.
func (t TokenSequence) Concat(other TokenSequence) TokenSequence {
	ids := make([]int, 0, len(t.IDs)+len(other.IDs))
	ids = append(ids, t.IDs...)
	ids = append(ids, other.IDs...)
	return TokenSequence{
		IDs:            ids,
		Truncated:      t.Truncated || other.Truncated,
		OriginalLength: t.OriginalLength + other.OriginalLength,
	}
}

// LogitTensor is a row-major (Rows x Vocab) block of next-token scores.
type LogitTensor struct {
	Rows  int
	Vocab int
	Data  []float32
}

func NewLogitTensor(rows, vocab int, data []float32) (LogitTensor, error) {
	if rows < 0 || vocab <= 0 {
		return LogitTensor{}, fmt.Errorf("%w: rows=%d vocab=%d", ErrShapeMismatch, rows, vocab)
	}
	if len(data) != rows*vocab {
		return LogitTensor{}, fmt.Errorf("%w: expected %d values, got %d", ErrShapeMismatch, rows*vocab, len(data))
	}
	return LogitTensor{Rows: rows, Vocab: vocab, Data: data}, nil
}

// Row returns the scores at position i without copying.
func (l LogitTensor) Row(i int) []float32 {
	return l.Data[i*l.Vocab : (i+1)*l.Vocab]
}

// CheckAligned verifies the tensor has one row per input position.
func (l LogitTensor) CheckAligned(tokens TokenSequence) error {
	if l.Rows != tokens.Len() {
		return fmt.Errorf("%w: %d rows for %d tokens", ErrShapeMismatch, l.Rows, tokens.Len())
	}
	if len(l.Data) != l.Rows*l.Vocab {
		return fmt.Errorf("%w: %d values for %dx%d", ErrShapeMismatch, len(l.Data), l.Rows, l.Vocab)
	}
	return nil
}

type Tokenizer interface {
	// Encode tokenizes text, truncating to maxLength tokens when maxLength > 0.
	Encode(ctx context.Context, text string, maxLength int) (TokenSequence, error)
}

type Model interface {
	Infer(ctx context.Context, tokens TokenSequence) (LogitTensor, error)
}

// Client is one causal language model together with its own tokenizer.
//
//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter
type Client interface {
	Tokenizer
	Model
	Name() string
	Ping(ctx context.Context) error
	Close() error
}
