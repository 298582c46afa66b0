// Package linefit fits a line to a set of points with gradient descent, one batch of steps at a time.
package linefit

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-linefit/dataset"
	"github.com/aouyang1/go-linefit/floatsunrolled"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoOptionsInModel = errors.New("no options set in model")
)

// Fitter fits a line to a point set with full batch gradient descent on the mean squared error.
// The point set is held by reference and is never modified by the Fitter; callers must not
// modify it either while the Fitter is in use.
//
// A Fitter is not safe for concurrent use. Independent Fitters may share the same point set.
type Fitter struct {
	points dataset.Points
	invN   float64

	learningRate float64
	initial      Line
	line         Line
	iterations   uint64
}

// New creates a Fitter over the provided points starting from the options initial line. If no
// options are provided a default is used. An empty point set is rejected with ErrInvalidInput.
func New(points dataset.Points, opt *Options) (*Fitter, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("point set is empty, %w", ErrInvalidInput)
	}

	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	f := &Fitter{
		points:       points,
		invN:         1.0 / float64(len(points)),
		learningRate: opt.LearningRate,
		initial:      opt.Initial,
		line:         opt.Initial,
	}
	return f, nil
}

// NewFromModel creates a Fitter that resumes from a model previously generated by Model(). The
// points should be the same set the model was trained on.
func NewFromModel(points dataset.Points, model Model) (*Fitter, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}

	opt := &Options{
		LearningRate: model.Options.LearningRate,
		Initial:      model.Line,
	}
	f, err := New(points, opt)
	if err != nil {
		return nil, fmt.Errorf("unable to load from model, %w", err)
	}
	f.initial = model.Options.Initial
	f.iterations = model.Iterations
	return f, nil
}

// SetLearningRate replaces the learning rate used by subsequent calls to Step. Rates that are too
// large diverge; that is left to the caller.
func (f *Fitter) SetLearningRate(rate float64) {
	f.learningRate = rate
}

// LearningRate returns the rate used by the next call to Step
func (f *Fitter) LearningRate() float64 {
	return f.learningRate
}

// Step advances the line estimate by the given number of full batch gradient descent updates.
// Step(0) does nothing.
func (f *Fitter) Step(iterations uint32) {
	m := f.line.Slope
	b := f.line.Intercept

	for i := uint32(0); i < iterations; i++ {
		// partial derivatives of the mean squared error with respect to m and b, summed over
		// every point before scaling
		var mPartial, bPartial float64
		for _, p := range f.points {
			diff := (m*p.X + b) - p.Y
			mPartial += diff * p.X
			bPartial += diff
		}
		mPartial *= f.invN
		bPartial *= f.invN

		// the gradient points in the direction of increase
		m -= f.learningRate * mPartial
		b -= f.learningRate * bPartial
	}

	f.line = Line{Slope: m, Intercept: b}
	f.iterations += uint64(iterations)
}

// Run logs the starting error, performs the given number of steps and logs the final error.
// Returns the resulting line.
func (f *Fitter) Run(iterations uint32) Line {
	slog.Info("starting gradient descent",
		"slope", f.line.Slope,
		"intercept", f.line.Intercept,
		"error", f.MeanSquaredError(),
		"learning_rate", f.learningRate,
	)

	f.Step(iterations)

	slog.Info("finished gradient descent",
		"iterations", iterations,
		"slope", f.line.Slope,
		"intercept", f.line.Intercept,
		"error", f.MeanSquaredError(),
	)
	return f.line
}

// CurrentLine returns the current estimate
func (f *Fitter) CurrentLine() Line {
	return f.line
}

// Iterations returns the total number of updates applied since the Fitter was created, including
// any carried over from a model.
func (f *Fitter) Iterations() uint64 {
	return f.iterations
}

// MeanSquaredError of the current line over the point set. This is sum((y-(mx+b))^2)/n.
func (f *Fitter) MeanSquaredError() float64 {
	m := f.line.Slope
	b := f.line.Intercept

	var sum float64
	for _, p := range f.points {
		diff := p.Y - (m*p.X + b)
		sum += diff * diff
	}
	return sum / float64(len(f.points))
}

// Points returns the point set being fit. It must not be modified.
func (f *Fitter) Points() dataset.Points {
	return f.points
}

// Predict evaluates the current line at every x
func (f *Fitter) Predict(x []float64) []float64 {
	return floatsunrolled.AffineTo(nil, f.line.Slope, f.line.Intercept, x)
}

// Residuals returns the difference between the point set y values and the current line
func (f *Fitter) Residuals() []float64 {
	return floatsunrolled.SubTo(nil, f.points.Y(), f.Predict(f.points.X()))
}

// Scores computes the fit scores of the current line against the point set
func (f *Fitter) Scores() (*Scores, error) {
	return NewScores(f.Predict(f.points.X()), f.points.Y())
}

// Sample captures the current iteration count, line and error
func (f *Fitter) Sample() FitSample {
	return FitSample{
		Iteration: f.iterations,
		Line:      f.line,
		MSE:       f.MeanSquaredError(),
	}
}

// Model generates a serializeable representation of the fit which can be used to resume fitting
// with NewFromModel.
func (f *Fitter) Model() (Model, error) {
	scores, err := f.Scores()
	if err != nil {
		return Model{}, fmt.Errorf("unable to compute fit scores, %w", err)
	}
	m := Model{
		Options: &Options{
			LearningRate: f.learningRate,
			Initial:      f.initial,
		},
		Line:       f.line,
		Iterations: f.iterations,
		Scores:     scores,
	}
	return m, nil
}
