package linefit

import (
	"fmt"
	"math"
)

const DefaultLearningRate = 1e-4

// Options configures a Fitter
type Options struct {
	// LearningRate scales each gradient update. A zero rate never moves the line and a rate that
	// is too large for the data diverges. Neither is rejected.
	LearningRate float64 `json:"learning_rate"`

	// Initial is the line the descent starts from
	Initial Line `json:"initial"`
}

// NewDefaultOptions starts from a flat line through the origin with the default learning rate
func NewDefaultOptions() *Options {
	return &Options{
		LearningRate: DefaultLearningRate,
	}
}

// Validate substitutes the default options on a nil receiver and rejects values that are not
// finite.
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}

	if !isFinite(o.LearningRate) {
		return nil, fmt.Errorf("learning rate of %f, %w", o.LearningRate, ErrInvalidInput)
	}
	if !isFinite(o.Initial.Slope) || !isFinite(o.Initial.Intercept) {
		return nil, fmt.Errorf("initial line %s, %w", o.Initial, ErrInvalidInput)
	}
	return o, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
