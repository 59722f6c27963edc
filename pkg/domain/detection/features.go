package detection

import (
	"fmt"
	"math"
)

const (
	SurprisalFeatureCount = 11
	WindowCount           = 9
	WindowStatCount       = 8
	DualFeatureCount      = WindowCount * WindowStatCount
	FeatureCount          = SurprisalFeatureCount + DualFeatureCount
)

type (
	SurprisalFeatures [SurprisalFeatureCount]float64
	DualFeatures      [DualFeatureCount]float64
	// FeatureVector is the classifier input. Index layout is fixed: 0-10
	// surprisal statistics, then nine windows of eight loss statistics.
	FeatureVector [FeatureCount]float64
)

var surprisalFeatureNames = [SurprisalFeatureCount]string{
	"mean_surprisal",
	"std_surprisal",
	"var_surprisal",
	"skew_surprisal",
	"kurtosis_surprisal",
	"mean_diff1",
	"std_diff1",
	"var_diff2",
	"entropy_diff2",
	"autocorr_diff2",
	"compression_ratio",
}

var windowStatNames = [WindowStatCount]string{
	"fce_mean", "fce_max", "fce_min", "fce_std",
	"bce_mean", "bce_max", "bce_min", "bce_std",
}

var featureNames = buildFeatureNames()

func buildFeatureNames() [FeatureCount]string {
	var names [FeatureCount]string
	copy(names[:], surprisalFeatureNames[:])
	for w := 0; w < WindowCount; w++ {
		for s := 0; s < WindowStatCount; s++ {
			names[SurprisalFeatureCount+w*WindowStatCount+s] = fmt.Sprintf("%s_p%d", windowStatNames[s], w+1)
		}
	}
	return names
}

// FeatureNames returns the name of every feature position, in vector order.
func FeatureNames() []string {
	out := make([]string, FeatureCount)
	copy(out, featureNames[:])
	return out
}

// Assemble appends the dual-alignment group after the surprisal group.
func Assemble(surprisal SurprisalFeatures, dual DualFeatures) FeatureVector {
	var v FeatureVector
	copy(v[:SurprisalFeatureCount], surprisal[:])
	copy(v[SurprisalFeatureCount:], dual[:])
	return v
}

func (v FeatureVector) Surprisal() SurprisalFeatures {
	var s SurprisalFeatures
	copy(s[:], v[:SurprisalFeatureCount])
	return s
}

func (v FeatureVector) Dual() DualFeatures {
	var d DualFeatures
	copy(d[:], v[SurprisalFeatureCount:])
	return d
}

// Named maps every feature name to its value.
func (v FeatureVector) Named() map[string]float64 {
	out := make(map[string]float64, FeatureCount)
	for i, name := range featureNames {
		out[name] = v[i]
	}
	return out
}

// Finite reports the first non-finite position, or -1.
func (v FeatureVector) Finite() int {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i
		}
	}
	return -1
}
