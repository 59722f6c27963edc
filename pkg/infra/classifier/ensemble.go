package classifier

import (
	"context"
	"math"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
)

var _ detection.Classifier = (*Ensemble)(nil)

type tree struct {
	left        []int
	right       []int
	feature     []int
	value       []float32 // split threshold, or leaf output when left == -1
	defaultLeft []bool
}

// leaf walks the tree the way the booster does: features are compared as
// float32, x < threshold goes left and a missing value follows the default
// branch.
func (t tree) leaf(x []float64) float32 {
	node := 0
	for t.left[node] != -1 {
		v := x[t.feature[node]]
		switch {
		case math.IsNaN(v):
			if t.defaultLeft[node] {
				node = t.left[node]
			} else {
				node = t.right[node]
			}
		case float32(v) < t.value[node]:
			node = t.left[node]
		default:
			node = t.right[node]
		}
	}
	return t.value[node]
}

// Ensemble is an immutable binary:logistic tree ensemble. It is safe for
// concurrent use.
type Ensemble struct {
	path          string
	digest        string
	version       string
	objective     string
	booster       string
	baseScore     float64
	numFeature    int
	featureNames  []string
	trees         []tree
	weights       []float64
	rounds        int
	active        int
	bestIteration *int
}

func (e *Ensemble) Digest() string {
	return e.digest
}

// Margin is the raw log-odds for one vector.
func (e *Ensemble) Margin(x []float64) float64 {
	margin := float32(logit(e.baseScore))
	for i := 0; i < e.active; i++ {
		out := e.trees[i].leaf(x)
		if e.weights != nil {
			out *= float32(e.weights[i])
		}
		margin += out
	}
	return float64(margin)
}

func (e *Ensemble) PredictProba(ctx context.Context, vectors []detection.FeatureVector) ([]float64, error) {
	out := make([]float64, len(vectors))
	for i := range vectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = sigmoid(e.Margin(vectors[i][:]))
	}
	return out, nil
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

type Summary struct {
	Path          string   `json:"path,omitempty"`
	Digest        string   `json:"sha256"`
	Version       string   `json:"xgboost_version,omitempty"`
	Objective     string   `json:"objective"`
	Booster       string   `json:"booster"`
	BaseScore     float64  `json:"base_score"`
	NumFeature    int      `json:"num_feature"`
	Trees         int      `json:"trees"`
	ActiveTrees   int      `json:"active_trees"`
	Rounds        int      `json:"rounds"`
	BestIteration *int     `json:"best_iteration,omitempty"`
	FeatureNames  []string `json:"feature_names,omitempty"`
}

func (e *Ensemble) Summary() Summary {
	return Summary{
		Path:          e.path,
		Digest:        e.digest,
		Version:       e.version,
		Objective:     e.objective,
		Booster:       e.booster,
		BaseScore:     e.baseScore,
		NumFeature:    e.numFeature,
		Trees:         len(e.trees),
		ActiveTrees:   e.active,
		Rounds:        e.rounds,
		BestIteration: e.bestIteration,
		FeatureNames:  e.featureNames,
	}
}
