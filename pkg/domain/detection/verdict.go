package detection

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	ErrNotReady        = errors.New("detection runtime not ready")
	ErrInvalidFeatures = errors.New("feature vector contains non-finite values")
)

type Label string

const (
	LabelLikelyAI          Label = "likely_ai"
	LabelPossiblyAI        Label = "possibly_ai"
	LabelLikelyHuman       Label = "likely_human"
	LabelInsufficientInput Label = "insufficient_input"
	LabelNotReady          Label = "not_ready"
)

const (
	MessageInsufficientInput = "Please enter some text with at least %d words."
	MessageNotReady          = "Model not loaded. The detector requires both language model services to be available."
)

// Thresholds split the AI probability into verdicts: p > LikelyAI is likely
// AI, PossiblyAI < p <= LikelyAI is possibly AI, everything else human.
type Thresholds struct {
	LikelyAI   float64 `mapstructure:"likely_ai"`
	PossiblyAI float64 `mapstructure:"possibly_ai"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		LikelyAI:   0.7,
		PossiblyAI: 0.5,
	}
}

func (t Thresholds) Validate() error {
	if t.PossiblyAI < 0 || t.LikelyAI > 1 {
		return fmt.Errorf("thresholds must be between 0 and 1")
	}
	if t.PossiblyAI > t.LikelyAI {
		return fmt.Errorf("possibly_ai threshold (%.2f) must not exceed likely_ai threshold (%.2f)", t.PossiblyAI, t.LikelyAI)
	}
	return nil
}

func (t Thresholds) Classify(aiProbability float64) Label {
	switch {
	case aiProbability > t.LikelyAI:
		return LabelLikelyAI
	case aiProbability > t.PossiblyAI:
		return LabelPossiblyAI
	default:
		return LabelLikelyHuman
	}
}

type Distribution struct {
	AI    float64 `json:"AI"`
	Human float64 `json:"Human"`
}

type Verdict struct {
	Label         Label          `json:"label"`
	Message       string         `json:"message"`
	AIProbability float64        `json:"ai_probability"`
	Distribution  Distribution   `json:"distribution"`
	Features      *FeatureVector `json:"-"`
	probability   float64
}

// Score is what the classifier produced for a text, before thresholds are
// applied.
type Score struct {
	AIProbability float64        `json:"ai_probability"`
	Features      *FeatureVector `json:"features,omitempty"`
}

// Score returns the unrounded probability and features behind a scored
// verdict.
func (v Verdict) Score() Score {
	return Score{AIProbability: v.probability, Features: v.Features}
}

// Scored reports whether the verdict came out of the classifier.
func (v Verdict) Scored() bool {
	return v.Label == LabelLikelyAI || v.Label == LabelPossiblyAI || v.Label == LabelLikelyHuman
}

func InsufficientInputVerdict(minWords int) Verdict {
	return Verdict{
		Label:   LabelInsufficientInput,
		Message: fmt.Sprintf(MessageInsufficientInput, minWords),
	}
}

func NotReadyVerdict() Verdict {
	return Verdict{
		Label:   LabelNotReady,
		Message: MessageNotReady,
	}
}

// FromScore formats a cached score with the given thresholds.
func FromScore(score Score, thresholds Thresholds) Verdict {
	verdict := NewVerdict(score.AIProbability, thresholds)
	verdict.Features = score.Features
	return verdict
}

// NewVerdict formats a classifier probability. The reported probability is
// rounded to three decimals; the distribution keeps full precision.
func NewVerdict(aiProbability float64, thresholds Thresholds) Verdict {
	human := 1 - aiProbability
	label := thresholds.Classify(aiProbability)

	var message string
	switch label {
	case LabelLikelyAI:
		message = fmt.Sprintf("Likely AI-generated (Confidence: %.2f%%)", aiProbability*100)
	case LabelPossiblyAI:
		message = fmt.Sprintf("Possibly AI-generated (Confidence: %.2f%%)", aiProbability*100)
	default:
		message = fmt.Sprintf("Likely Human-written (Confidence: %.2f%%)", human*100)
	}

	return Verdict{
		Label:         label,
		Message:       message,
		AIProbability: math.Round(aiProbability*1000) / 1000,
		probability:   aiProbability,
		Distribution: Distribution{
			AI:    aiProbability * 100,
			Human: human * 100,
		},
	}
}

//go:generate mockery --name=Classifier --dir=. --output=./mocks --filename=classifier_mock.go --case=underscore --with-expecter
type Classifier interface {
	// PredictProba returns P(AI-generated) for every vector, in order.
	PredictProba(ctx context.Context, vectors []FeatureVector) ([]float64, error)
	Digest() string
}
