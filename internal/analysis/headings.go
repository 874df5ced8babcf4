package analysis

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrNoSamples = errors.New("analysis: no heading samples")

const twoPi = 2 * math.Pi

// Normalize wraps an angle into [0, 2pi).
func Normalize(theta float64) float64 {
	theta = math.Mod(theta, twoPi)
	if theta < 0 {
		theta += twoPi
	}
	if theta >= twoPi {
		theta = 0
	}
	return theta
}

// Histogram bins headings into equal-width sectors over [0, 2pi).
func Histogram(headings []float64, bins int) ([]float64, error) {
	if len(headings) == 0 {
		return nil, ErrNoSamples
	}
	if bins < 1 {
		bins = 1
	}
	x := make([]float64, len(headings))
	for i, h := range headings {
		x[i] = Normalize(h)
	}
	sort.Float64s(x)
	dividers := floats.Span(make([]float64, bins+1), 0, twoPi)
	return stat.Histogram(nil, dividers, x, nil), nil
}

// UniformityResult is the outcome of a chi-square test against a uniform
// heading distribution.
type UniformityResult struct {
	Bins      int
	Samples   int
	ChiSquare float64
	PValue    float64
}

// Uniform reports whether the test fails to reject uniformity at alpha.
func (r UniformityResult) Uniform(alpha float64) bool {
	return r.PValue > alpha
}

// Uniformity runs a chi-square goodness-of-fit test of headings against the
// uniform distribution on the circle.
func Uniformity(headings []float64, bins int) (UniformityResult, error) {
	if bins < 2 {
		bins = 2
	}
	counts, err := Histogram(headings, bins)
	if err != nil {
		return UniformityResult{}, err
	}
	expected := make([]float64, bins)
	for i := range expected {
		expected[i] = float64(len(headings)) / float64(bins)
	}
	chi := stat.ChiSquare(counts, expected)
	dist := distuv.ChiSquared{K: float64(bins - 1)}
	return UniformityResult{
		Bins:      bins,
		Samples:   len(headings),
		ChiSquare: chi,
		PValue:    dist.Survival(chi),
	}, nil
}

// Resultant returns the circular mean direction (radians, in [0, 2pi)) and
// the mean resultant length R in [0, 1]. R is 1 when every heading agrees
// and near 0 for uniform noise.
func Resultant(headings []float64) (mean, length float64, err error) {
	if len(headings) == 0 {
		return 0, 0, ErrNoSamples
	}
	var sumSin, sumCos float64
	for _, h := range headings {
		sumSin += math.Sin(h)
		sumCos += math.Cos(h)
	}
	n := float64(len(headings))
	mean = Normalize(stat.CircularMean(headings, nil))
	length = math.Hypot(sumSin, sumCos) / n
	return mean, length, nil
}

// SignalFraction estimates the share of headings within tol radians of the
// signal direction.
func SignalFraction(headings []float64, signal, tol float64) float64 {
	if len(headings) == 0 {
		return 0
	}
	hits := 0
	for _, h := range headings {
		d := math.Abs(Normalize(h) - Normalize(signal))
		if d > math.Pi {
			d = twoPi - d
		}
		if d <= tol {
			hits++
		}
	}
	return float64(hits) / float64(len(headings))
}
