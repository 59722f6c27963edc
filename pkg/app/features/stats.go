package features

import (
	"math"
)

const (
	clipBound     = 1e6
	histogramBins = 20
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// centralMoment is the biased k-th moment about the mean.
func centralMoment(xs []float64, m float64, k int) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += math.Pow(x-m, float64(k))
	}
	return sum / float64(len(xs))
}

// variance is the population variance (ddof = 0).
func variance(xs []float64) float64 {
	return centralMoment(xs, mean(xs), 2)
}

func stddev(xs []float64) float64 {
	return math.Sqrt(variance(xs))
}

// skewness is the biased Fisher-Pearson coefficient, 0 when the input has no
// spread.
func skewness(xs []float64) float64 {
	m := mean(xs)
	m2 := centralMoment(xs, m, 2)
	if degenerate(m2, m) {
		return 0
	}
	return finiteOrZero(centralMoment(xs, m, 3) / math.Pow(m2, 1.5))
}

// excessKurtosis is the biased Fisher kurtosis (normal = 0), 0 when the
// input has no spread.
func excessKurtosis(xs []float64) float64 {
	m := mean(xs)
	m2 := centralMoment(xs, m, 2)
	if degenerate(m2, m) {
		return 0
	}
	return finiteOrZero(centralMoment(xs, m, 4)/(m2*m2) - 3)
}

// degenerate mirrors the usual float64 resolution test for "no spread":
// m2 <= (1e-15 * mean)^2.
func degenerate(m2, m float64) bool {
	r := resolution * m
	return m2 <= r*r
}

const resolution = 1e-15

func diff(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, len(xs)-1)
	for i := range out {
		out[i] = xs[i+1] - xs[i]
	}
	return out
}

// histogramEntropy is the Shannon entropy (nats) of a 20-bin equal-width
// histogram over the observed range. A zero-width range is widened to
// [v-0.5, v+0.5].
func histogramEntropy(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	counts := histogram(xs, histogramBins)

	var entropy float64
	n := float64(len(xs))
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		entropy -= p * math.Log(p)
	}
	return finiteOrZero(entropy)
}

func histogram(xs []float64, bins int) []int {
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := make([]float64, bins+1)
	step := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[bins] = hi

	counts := make([]int, bins)
	norm := float64(bins) / (hi - lo)
	for _, x := range xs {
		idx := int((x - lo) * norm)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		// floating error can land a value one bin off its edge
		if x < edges[idx] && idx > 0 {
			idx--
		} else if idx < bins-1 && x >= edges[idx+1] {
			idx++
		}
		counts[idx]++
	}
	return counts
}

// lagOneAutocorrelation is the Pearson correlation of xs[:-1] with xs[1:].
// Fewer than two points or a constant side yields 0.
func lagOneAutocorrelation(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	a, b := xs[:len(xs)-1], xs[1:]
	ma, mb := mean(a), mean(b)

	var cov, va, vb float64
	for i := range a {
		da, db := a[i]-ma, b[i]-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0
	}
	r := cov / math.Sqrt(va*vb)
	return math.Max(-1, math.Min(1, finiteOrZero(r)))
}

func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// clipLoss maps NaN to 0 and bounds everything else to [-1e6, 1e6].
func clipLoss(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(-clipBound, math.Min(clipBound, x))
}

type summary struct {
	Mean, Max, Min, Std float64
}

// summarize returns the window statistics; an empty window is all zeros.
func summarize(xs []float64) summary {
	if len(xs) == 0 {
		return summary{}
	}
	s := summary{Max: xs[0], Min: xs[0]}
	for _, x := range xs[1:] {
		s.Max = math.Max(s.Max, x)
		s.Min = math.Min(s.Min, x)
	}
	s.Mean = mean(xs)
	s.Std = stddev(xs)
	return s
}
