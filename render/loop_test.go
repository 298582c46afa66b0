package render

import (
	"context"
	"errors"
	"image/png"
	"os"
	"testing"

	"github.com/aouyang1/go-linefit"
	"github.com/aouyang1/go-linefit/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallLoopOptions(frames, stepEvery int, stepsPerTick uint32) *LoopOptions {
	return &LoopOptions{
		Frames:       frames,
		StepEvery:    stepEvery,
		StepsPerTick: stepsPerTick,
		Canvas: &CanvasOptions{
			Width:  32,
			Height: 24,
		},
	}
}

func newTestFitter(t *testing.T) *linefit.Fitter {
	points := dataset.Points{{X: 0, Y: 1}, {X: 1, Y: 3}, {X: 2, Y: 5}, {X: 3, Y: 7}}
	f, err := linefit.New(points, &linefit.Options{LearningRate: 0.05})
	require.Nil(t, err)
	return f
}

func discardSink() FrameSink {
	return FrameSinkFunc(func(int, *Canvas) error { return nil })
}

func TestLoopOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *LoopOptions
		expected *LoopOptions
		err      error
	}{
		"nil": {nil, NewDefaultLoopOptions(), nil},
		"clamped": {
			opt: &LoopOptions{Frames: -3, StepEvery: 0, StepsPerTick: 2},
			expected: &LoopOptions{
				Frames:       0,
				StepEvery:    1,
				StepsPerTick: 2,
				KeepStats:    DefaultKeepStats,
				Canvas:       NewDefaultCanvasOptions(),
			},
		},
		"bad canvas": {
			opt: &LoopOptions{Canvas: &CanvasOptions{}},
			err: ErrInvalidSize,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestRunCadence(t *testing.T) {
	testData := map[string]struct {
		frames       int
		stepEvery    int
		stepsPerTick uint32
		iterations   uint64
	}{
		"every frame":          {10, 1, 1, 10},
		"every third frame":    {10, 3, 2, 6},
		"never reaches a step": {2, 3, 5, 0},
		"zero steps per tick":  {5, 1, 0, 0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f := newTestFitter(t)
			stats, err := Run(context.Background(), f, discardSink(), smallLoopOptions(td.frames, td.stepEvery, td.stepsPerTick))
			require.Nil(t, err)
			require.Len(t, stats, td.frames)

			assert.Equal(t, td.iterations, f.Iterations())
			last := stats[len(stats)-1]
			assert.Equal(t, td.frames-1, last.Frame)
			assert.Equal(t, td.iterations, last.Iteration)
			assert.Equal(t, f.CurrentLine(), last.Line)
			assert.Equal(t, f.MeanSquaredError(), last.MSE)
		})
	}
}

func TestRunMatchesDirectSteps(t *testing.T) {
	looped := newTestFitter(t)
	_, err := Run(context.Background(), looped, discardSink(), smallLoopOptions(40, 2, 3))
	require.Nil(t, err)

	direct := newTestFitter(t)
	direct.Step(60)

	assert.Equal(t, direct.CurrentLine(), looped.CurrentLine())
}

func TestRunErrorDecreases(t *testing.T) {
	f := newTestFitter(t)
	stats, err := Run(context.Background(), f, discardSink(), smallLoopOptions(50, 1, 10))
	require.Nil(t, err)

	samples := Samples(stats)
	require.Len(t, samples, 50)
	assert.Less(t, samples[49].MSE, samples[0].MSE)
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := FrameSinkFunc(func(frame int, c *Canvas) error {
		if frame == 4 {
			cancel()
		}
		return nil
	})

	// zero frames runs until cancelled
	f := newTestFitter(t)
	stats, err := Run(ctx, f, sink, smallLoopOptions(0, 1, 1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, stats, 5)
	assert.Equal(t, uint64(5), f.Iterations())
}

func TestRunUnboundedKeepsRecentStats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := FrameSinkFunc(func(frame int, c *Canvas) error {
		if frame == 6 {
			cancel()
		}
		return nil
	})

	opt := smallLoopOptions(0, 1, 1)
	opt.KeepStats = 3

	f := newTestFitter(t)
	stats, err := Run(ctx, f, sink, opt)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, stats, 3)
	for i, s := range stats {
		assert.Equal(t, 4+i, s.Frame)
		assert.Equal(t, uint64(5+i), s.Iteration)
	}
	assert.Equal(t, uint64(7), f.Iterations())

	// bounded loops ignore the limit
	bounded := smallLoopOptions(5, 1, 1)
	bounded.KeepStats = 2
	stats, err = Run(context.Background(), newTestFitter(t), discardSink(), bounded)
	require.Nil(t, err)
	assert.Len(t, stats, 5)
}

func TestRunErrors(t *testing.T) {
	f := newTestFitter(t)

	_, err := Run(context.Background(), f, nil, nil)
	assert.ErrorIs(t, err, ErrNoSink)

	sinkErr := errors.New("sink failed")
	stats, err := Run(context.Background(), f, FrameSinkFunc(func(frame int, c *Canvas) error {
		if frame == 2 {
			return sinkErr
		}
		return nil
	}), smallLoopOptions(10, 1, 1))
	assert.ErrorIs(t, err, sinkErr)
	assert.Len(t, stats, 2)
}

func TestDirSink(t *testing.T) {
	dir := t.TempDir() + "/frames"
	sink, err := NewDirSink(dir)
	require.Nil(t, err)

	f := newTestFitter(t)
	_, err = Run(context.Background(), f, sink, smallLoopOptions(3, 1, 1))
	require.Nil(t, err)

	for frame := 0; frame < 3; frame++ {
		file, err := os.Open(sink.FramePath(frame))
		require.Nil(t, err)
		img, err := png.Decode(file)
		file.Close()
		require.Nil(t, err)
		assert.Equal(t, 32, img.Bounds().Dx())
		assert.Equal(t, 24, img.Bounds().Dy())
	}
}
