// Package dataset holds the two dimensional point sets a line is fit against along with helpers
// to load them from csv and to simulate them for tests and demos.
package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrDatasetLenMismatch = errors.New("x values have a different length than y values")
)

// Point is a single observation. Points are never modified once part of a fit.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Points is an ordered set of observations. The order must stay fixed while a fit is in
// progress since the fitter accumulates in this order.
type Points []Point

// NewPoints returns a point set built from parallel x and y slices. Both must have the
// same non-zero length. The input slices are copied.
func NewPoints(x, y []float64) (Points, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf(
			"x has length of %d, but y has a length of %d, %w",
			len(x), len(y), ErrDatasetLenMismatch,
		)
	}

	p := make(Points, len(x))
	for i := 0; i < len(x); i++ {
		p[i] = Point{X: x[i], Y: y[i]}
	}
	return p, nil
}

// Copy returns a deep copy of the point set
func (p Points) Copy() Points {
	c := make(Points, len(p))
	copy(c, p)
	return c
}

// X returns the x values in point order
func (p Points) X() []float64 {
	x := make([]float64, len(p))
	for i, pnt := range p {
		x[i] = pnt.X
	}
	return x
}

// Y returns the y values in point order
func (p Points) Y() []float64 {
	y := make([]float64, len(p))
	for i, pnt := range p {
		y[i] = pnt.Y
	}
	return y
}

// Domain returns the smallest and largest x value. An empty set returns zeros.
func (p Points) Domain() (float64, float64) {
	if len(p) == 0 {
		return 0, 0
	}
	x := p.X()
	return floats.Min(x), floats.Max(x)
}

// Range returns the smallest and largest y value. An empty set returns zeros.
func (p Points) Range() (float64, float64) {
	if len(p) == 0 {
		return 0, 0
	}
	y := p.Y()
	return floats.Min(y), floats.Max(y)
}
