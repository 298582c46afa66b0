package linefit

import (
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/pkg/profile"
)

var benchLine Line

func BenchmarkStep(b *testing.B) {
	points := generateNoisyLine(10000, 3.1, -2.2, 1.5, 1)

	f, err := New(points, &Options{LearningRate: 0.01})
	if err != nil {
		panic(err)
	}

	b.ResetTimer()
	for b.Loop() {
		f.Step(10)
	}
	benchLine = f.CurrentLine()
}

func BenchmarkTrainToModel(b *testing.B) {
	points := generateNoisyLine(10000, 3.1, -2.2, 1.5, 1)

	var f *Fitter
	var err error

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(b.TempDir()), profile.Quiet).Stop()
	for b.Loop() {
		f, err = New(points, &Options{LearningRate: 0.01})
		if err != nil {
			panic(err)
		}
		f.Step(100)
	}

	m, err := f.Model()
	if err != nil {
		panic(err)
	}

	bytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		panic(err)
	}

	if err := os.WriteFile(b.TempDir()+"/benchmark_model.json", bytes, 0o644); err != nil {
		panic(err)
	}
}
