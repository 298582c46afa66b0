package linefit

import "fmt"

// Line represents y = Slope*x + Intercept. Lines are replaced wholesale on every update.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at x
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// String returns the line as y ~ b + mx
func (l Line) String() string {
	return fmt.Sprintf("y ~ %.5f + %.5fx", l.Intercept, l.Slope)
}

// FitSample is a snapshot of a fit after some number of iterations
type FitSample struct {
	Iteration uint64  `json:"iteration"`
	Line      Line    `json:"line"`
	MSE       float64 `json:"mean_squared_error"`
}
