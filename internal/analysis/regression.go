package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Regression is an ordinary least squares fit y = Slope*x + Intercept.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	// R is the Pearson correlation coefficient of x and y.
	R float64 `json:"r"`
	// PValue is the two-sided p-value for a null slope (Student's t, n-2 df).
	PValue float64 `json:"p_value"`
	// StdErr is the standard error of the slope.
	StdErr float64 `json:"std_err"`
	N      int     `json:"n"`
}

// Predict evaluates the fitted line at x.
func (r Regression) Predict(x float64) float64 { return r.Slope*x + r.Intercept }

// FitLinear fits y on x. It needs at least three pairs and non-constant data.
func FitLinear(xs, ys []float64) (Regression, error) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n < 3 {
		return Regression{}, &InsufficientDataError{What: "linear regression", Need: 3, Got: n}
	}
	xs, ys = xs[:n], ys[:n]
	vx, vy := stat.Variance(xs, nil), stat.Variance(ys, nil)
	if vx == 0 || vy == 0 {
		return Regression{}, ErrZeroVariance
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	r := stat.Correlation(xs, ys, nil)
	r = math.Max(-1, math.Min(1, r))

	df := float64(n - 2)
	reg := Regression{Slope: slope, Intercept: intercept, R: r, N: n}
	r2 := r * r
	if 1-r2 <= 1e-15 {
		// perfect fit
		return reg, nil
	}
	t := r * math.Sqrt(df/(1-r2))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	reg.PValue = 2 * dist.Survival(math.Abs(t))
	reg.StdErr = math.Sqrt((1 - r2) * vy / vx / df)
	return reg, nil
}
