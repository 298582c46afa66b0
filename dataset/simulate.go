package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// Series is a slice of values that can be composed in place
type Series []float64

// Add sums src into s element-wise and returns s
func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// Scale multiplies every value in s by c and returns s
func (s Series) Scale(c float64) Series {
	floats.Scale(c, s)
	return s
}

// GenerateX returns n evenly spaced x values starting at start
func GenerateX(n int, start, step float64) []float64 {
	x := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		x = append(x, start+step*float64(i))
	}
	return x
}

// GenerateConstY returns n copies of val
func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateLine evaluates slope*x+intercept for every x
func GenerateLine(x []float64, slope, intercept float64) Series {
	y := make([]float64, 0, len(x))
	for _, xPnt := range x {
		y = append(y, slope*xPnt+intercept)
	}
	return Series(y)
}

// GenerateNoise returns n normally distributed values with the given standard deviation. A nil
// rng uses the global source.
func GenerateNoise(n int, scale float64, rng *rand.Rand) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		var v float64
		if rng != nil {
			v = rng.NormFloat64()
		} else {
			v = rand.NormFloat64()
		}
		y = append(y, v*scale)
	}
	return Series(y)
}
