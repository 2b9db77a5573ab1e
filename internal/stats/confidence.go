package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Interval is a confidence interval around a metric's mean.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Width returns the interval's total width.
func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

// Student's t critical values at 95% confidence, keyed by the number of
// sample values. Sparse above 15; lookups between keys fall back to the
// most conservative tail value.
var tCriticalByRuns = map[int]float64{
	3: 4.303, 4: 3.182, 5: 2.776, 6: 2.571, 7: 2.447, 8: 2.365,
	9: 2.306, 10: 2.262, 11: 2.228, 12: 2.201, 13: 2.179, 14: 2.160,
	15: 2.145, 20: 2.093, 25: 2.064, 29: 2.045,
}

const tCriticalFallback = 2.045

const (
	zCritical95 = 1.96
	zCritical90 = 1.645
)

func criticalValue(n int, confidence float64) float64 {
	if n >= 30 {
		if confidence < 0.95 {
			return zCritical90
		}
		return zCritical95
	}
	if t, ok := tCriticalByRuns[n]; ok {
		return t
	}
	return tCriticalFallback
}

// ConfidenceInterval computes the mean and confidence interval of a metric
// from independent sample values. Fewer than two samples give a zero-width
// interval; exactly two give a range-based interval; small samples use the
// t-distribution and large samples (n >= 30) the normal approximation.
func ConfidenceInterval(samples []float64, confidence float64) (float64, Interval) {
	switch len(samples) {
	case 0:
		return 0, Interval{}
	case 1:
		return samples[0], Interval{Lower: samples[0], Upper: samples[0]}
	case 2:
		mean := (samples[0] + samples[1]) / 2
		half := math.Abs(samples[1]-samples[0]) / 2
		return mean, Interval{Lower: mean - half, Upper: mean + half}
	}

	mean := stat.Mean(samples, nil)
	stdev := stat.StdDev(samples, nil)
	margin := criticalValue(len(samples), confidence) * stdev / math.Sqrt(float64(len(samples)))
	return mean, Interval{Lower: mean - margin, Upper: mean + margin}
}

// Significant reports whether a confidence interval excludes zero: both
// bounds strictly positive or both strictly negative.
func Significant(ci Interval) bool {
	return (ci.Lower > 0 && ci.Upper > 0) || (ci.Lower < 0 && ci.Upper < 0)
}
