package classifier

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
	"github.com/valyala/fastjson"
)

var (
	ErrInvalidArtifact = errors.New("invalid classifier artifact")
	ErrFeatureMismatch = errors.New("classifier feature layout mismatch")
	ErrDigestMismatch  = errors.New("classifier artifact digest mismatch")
)

const (
	objectiveBinaryLogistic = "binary:logistic"
	boosterTree             = "gbtree"
	boosterDart             = "dart"
)

type Option func(*options)

type options struct {
	expectedSHA256   string
	expectedFeatures int
	featureNames     []string
}

// WithExpectedSHA256 pins the artifact to a hex digest.
func WithExpectedSHA256(digest string) Option {
	return func(o *options) {
		o.expectedSHA256 = strings.ToLower(strings.TrimSpace(digest))
	}
}

func WithExpectedFeatures(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.expectedFeatures = n
		}
	}
}

// WithFeatureNames requires the artifact's feature_names, when present, to
// match names position by position.
func WithFeatureNames(names []string) Option {
	return func(o *options) {
		o.featureNames = names
	}
}

// Load reads and validates a gradient-boosted tree ensemble saved in the
// XGBoost JSON model format.
func Load(path string, opts ...Option) (*Ensemble, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier artifact %s: %w", path, err)
	}
	e, err := Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	e.path = path
	return e, nil
}

func Parse(data []byte, opts ...Option) (*Ensemble, error) {
	o := &options{
		expectedFeatures: detection.FeatureCount,
	}
	for _, opt := range opts {
		opt(o)
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	if o.expectedSHA256 != "" && o.expectedSHA256 != digest {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, o.expectedSHA256, digest)
	}

	var p fastjson.Parser
	root, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	learner := root.Get("learner")
	if learner == nil {
		return nil, fmt.Errorf("%w: missing learner", ErrInvalidArtifact)
	}

	e := &Ensemble{digest: digest}
	if v := root.GetArray("version"); len(v) > 0 {
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.Itoa(n.GetInt())
		}
		e.version = strings.Join(parts, ".")
	}

	e.objective = string(learner.GetStringBytes("objective", "name"))
	if e.objective != objectiveBinaryLogistic {
		return nil, fmt.Errorf("%w: unsupported objective %q", ErrInvalidArtifact, e.objective)
	}

	params := learner.Get("learner_model_param")
	if params == nil {
		return nil, fmt.Errorf("%w: missing learner_model_param", ErrInvalidArtifact)
	}
	if e.baseScore, err = parseBaseScore(string(params.GetStringBytes("base_score"))); err != nil {
		return nil, err
	}
	if e.numFeature, err = stringInt(params, "num_feature"); err != nil {
		return nil, err
	}
	numClass, _ := stringInt(params, "num_class")
	if numClass > 1 {
		return nil, fmt.Errorf("%w: multi-class model with %d classes", ErrInvalidArtifact, numClass)
	}
	if e.numFeature != o.expectedFeatures {
		return nil, fmt.Errorf("%w: artifact expects %d features, pipeline produces %d", ErrFeatureMismatch, e.numFeature, o.expectedFeatures)
	}

	if names := learner.GetArray("feature_names"); len(names) > 0 {
		if len(names) != o.expectedFeatures {
			return nil, fmt.Errorf("%w: %d feature names for %d features", ErrFeatureMismatch, len(names), o.expectedFeatures)
		}
		e.featureNames = make([]string, len(names))
		for i, n := range names {
			e.featureNames[i] = string(n.GetStringBytes())
		}
		if len(o.featureNames) == len(e.featureNames) && !generatedNames(e.featureNames) {
			for i := range e.featureNames {
				if e.featureNames[i] != o.featureNames[i] {
					return nil, fmt.Errorf("%w: position %d is %q, expected %q", ErrFeatureMismatch, i, e.featureNames[i], o.featureNames[i])
				}
			}
		}
	}

	booster := learner.Get("gradient_booster")
	if booster == nil {
		return nil, fmt.Errorf("%w: missing gradient_booster", ErrInvalidArtifact)
	}
	e.booster = string(booster.GetStringBytes("name"))
	var model *fastjson.Value
	switch e.booster {
	case boosterTree:
		model = booster.Get("model")
	case boosterDart:
		model = booster.Get("gbtree", "model")
		for _, w := range booster.GetArray("weight_drop") {
			e.weights = append(e.weights, w.GetFloat64())
		}
	default:
		return nil, fmt.Errorf("%w: unsupported booster %q", ErrInvalidArtifact, e.booster)
	}
	if model == nil {
		return nil, fmt.Errorf("%w: missing tree model", ErrInvalidArtifact)
	}

	rawTrees := model.GetArray("trees")
	if len(rawTrees) == 0 {
		return nil, fmt.Errorf("%w: no trees", ErrInvalidArtifact)
	}
	if e.weights != nil && len(e.weights) != len(rawTrees) {
		return nil, fmt.Errorf("%w: %d dart weights for %d trees", ErrInvalidArtifact, len(e.weights), len(rawTrees))
	}
	e.trees = make([]tree, len(rawTrees))
	for i, raw := range rawTrees {
		t, err := parseTree(raw, e.numFeature)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		e.trees[i] = t
	}

	perRound := 1
	if n, err := stringInt(model, "gbtree_model_param", "num_parallel_tree"); err == nil && n > 0 {
		perRound = n
	}
	e.rounds = len(e.trees) / perRound
	e.active = len(e.trees)
	if attr := learner.GetStringBytes("attributes", "best_iteration"); len(attr) > 0 {
		best, err := strconv.Atoi(string(attr))
		if err != nil || best < 0 {
			return nil, fmt.Errorf("%w: bad best_iteration %q", ErrInvalidArtifact, attr)
		}
		e.bestIteration = &best
		if limit := (best + 1) * perRound; limit < e.active {
			e.active = limit
		}
	}

	return e, nil
}

// parseBaseScore accepts both "5E-1" and the bracketed "[5E-1]" form.
func parseBaseScore(raw string) (float64, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")
	if raw == "" {
		return 0.5, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || v >= 1 {
		return 0, fmt.Errorf("%w: base_score %q outside (0,1)", ErrInvalidArtifact, raw)
	}
	return v, nil
}

// stringInt reads the numeric-string parameters XGBoost writes.
func stringInt(v *fastjson.Value, keys ...string) (int, error) {
	field := v.Get(keys...)
	if field == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidArtifact, strings.Join(keys, "."))
	}
	if field.Type() == fastjson.TypeNumber {
		return field.GetInt(), nil
	}
	n, err := strconv.Atoi(string(field.GetStringBytes()))
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrInvalidArtifact, strings.Join(keys, "."))
	}
	return n, nil
}

// generatedNames reports the f0..fN placeholder names written when a model
// is trained without named columns.
func generatedNames(names []string) bool {
	for i, n := range names {
		if n != "f"+strconv.Itoa(i) {
			return false
		}
	}
	return true
}

func parseTree(raw *fastjson.Value, numFeature int) (tree, error) {
	left := intArray(raw.GetArray("left_children"))
	right := intArray(raw.GetArray("right_children"))
	features := intArray(raw.GetArray("split_indices"))
	n := len(left)
	if n == 0 || len(right) != n || len(features) != n {
		return tree{}, fmt.Errorf("%w: inconsistent node arrays", ErrInvalidArtifact)
	}

	conds := raw.GetArray("split_conditions")
	defaults := raw.GetArray("default_left")
	if len(conds) != n || len(defaults) != n {
		return tree{}, fmt.Errorf("%w: inconsistent node arrays", ErrInvalidArtifact)
	}
	for _, st := range raw.GetArray("split_type") {
		if st.GetInt() != 0 {
			return tree{}, fmt.Errorf("%w: categorical splits are not supported", ErrInvalidArtifact)
		}
	}

	t := tree{
		left:        left,
		right:       right,
		feature:     features,
		value:       make([]float32, n),
		defaultLeft: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		t.value[i] = float32(conds[i].GetFloat64())
		switch defaults[i].Type() {
		case fastjson.TypeTrue:
			t.defaultLeft[i] = true
		case fastjson.TypeNumber:
			t.defaultLeft[i] = defaults[i].GetInt() != 0
		}

		if left[i] == -1 {
			if math.IsNaN(float64(t.value[i])) {
				return tree{}, fmt.Errorf("%w: NaN leaf at node %d", ErrInvalidArtifact, i)
			}
			continue
		}
		// children always follow their parent, so evaluation terminates
		if left[i] <= i || left[i] >= n || right[i] <= i || right[i] >= n {
			return tree{}, fmt.Errorf("%w: bad children at node %d", ErrInvalidArtifact, i)
		}
		if features[i] < 0 || features[i] >= numFeature {
			return tree{}, fmt.Errorf("%w: split on feature %d of %d", ErrFeatureMismatch, features[i], numFeature)
		}
	}
	return t, nil
}

func intArray(vs []*fastjson.Value) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = v.GetInt()
	}
	return out
}
