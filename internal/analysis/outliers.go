package analysis

import (
	"math"
)

// DefaultIQRMultiplier is the Tukey fence multiplier.
const DefaultIQRMultiplier = 1.5

// QuartileSet holds the 25th, 50th and 75th percentiles of a sample.
type QuartileSet struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// IQR is the interquartile range.
func (q QuartileSet) IQR() float64 { return q.Q3 - q.Q1 }

// Quartiles computes Q1, Q2 and Q3 by linear interpolation between closest ranks.
func Quartiles(values []float64) (QuartileSet, error) {
	if len(values) < 2 {
		return QuartileSet{}, &InsufficientDataError{What: "quartiles", Need: 2, Got: len(values)}
	}
	s := sortedCopy(values)
	return QuartileSet{Q1: quantile(s, 0.25), Q2: quantile(s, 0.5), Q3: quantile(s, 0.75)}, nil
}

// Bounds returns the Tukey fences q1 - 1.5*IQR and q3 + 1.5*IQR.
func Bounds(q1, q3 float64) (lower, upper float64) {
	return BoundsK(q1, q3, DefaultIQRMultiplier)
}

// BoundsK is Bounds with an explicit IQR multiplier.
func BoundsK(q1, q3, k float64) (lower, upper float64) {
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr
}

// Detect returns the values strictly outside [lower, upper], in input order.
func Detect(values []float64, lower, upper float64) []float64 {
	var out []float64
	for _, v := range values {
		if v < lower || v > upper {
			out = append(out, v)
		}
	}
	return out
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
