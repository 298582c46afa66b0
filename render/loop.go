package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aouyang1/go-linefit"
	"github.com/aouyang1/go-linefit/dataset"
)

var ErrNoSink = errors.New("no frame sink")

// DefaultKeepStats bounds the frame stats returned by a loop that runs until cancelled
const DefaultKeepStats = 4096

// Stepper is the part of a fitter the loop drives
type Stepper interface {
	Step(iterations uint32)
	CurrentLine() linefit.Line
	MeanSquaredError() float64
	Iterations() uint64
	Points() dataset.Points
}

// FrameStat records the fit as drawn on a frame
type FrameStat struct {
	Frame int `json:"frame"`
	linefit.FitSample
}

// FrameSink consumes each drawn frame. The canvas is only valid for the duration of the call.
type FrameSink interface {
	WriteFrame(frame int, c *Canvas) error
}

// FrameSinkFunc adapts a function to a FrameSink
type FrameSinkFunc func(frame int, c *Canvas) error

func (f FrameSinkFunc) WriteFrame(frame int, c *Canvas) error {
	return f(frame, c)
}

// LoopOptions sets how many frames are drawn and how the fit advances between them
type LoopOptions struct {
	// Frames is the number of frames to draw. 0 draws until the context is cancelled.
	Frames int

	// StepEvery is the number of frames between fit updates
	StepEvery int

	// StepsPerTick is the number of gradient descent iterations run on each update
	StepsPerTick uint32

	// KeepStats is the number of most recent frame stats kept when Frames is 0. A bounded
	// loop keeps the stats of every frame.
	KeepStats int

	Canvas *CanvasOptions
}

// NewDefaultLoopOptions advances the fit one iteration on every one of 1000 frames
func NewDefaultLoopOptions() *LoopOptions {
	return &LoopOptions{
		Frames:       1000,
		StepEvery:    1,
		StepsPerTick: 1,
		KeepStats:    DefaultKeepStats,
		Canvas:       NewDefaultCanvasOptions(),
	}
}

// Validate substitutes the default options on a nil receiver and clamps the cadence to at least
// one frame per update
func (o *LoopOptions) Validate() (*LoopOptions, error) {
	if o == nil {
		o = NewDefaultLoopOptions()
	}
	if o.Frames < 0 {
		o.Frames = 0
	}
	if o.StepEvery < 1 {
		o.StepEvery = 1
	}
	if o.KeepStats < 1 {
		o.KeepStats = DefaultKeepStats
	}
	canvas, err := o.Canvas.Validate()
	if err != nil {
		return nil, err
	}
	o.Canvas = canvas
	return o, nil
}

// Run draws frames of the fitter's points and current line into the sink. On every StepEvery'th
// frame the fitter is advanced StepsPerTick iterations before drawing. The context is only
// checked between frames, a step in progress always completes. Returns the stats of the frames
// handed to the sink, limited to the last KeepStats frames when Frames is 0.
func Run(ctx context.Context, fitter Stepper, sink FrameSink, opt *LoopOptions) ([]FrameStat, error) {
	if sink == nil {
		return nil, ErrNoSink
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	points := fitter.Points()
	canvas, err := NewCanvas(points, opt.Canvas)
	if err != nil {
		return nil, fmt.Errorf("unable to create canvas, %w", err)
	}
	defer canvas.Close()

	var stats []FrameStat
	if opt.Frames > 0 {
		stats = make([]FrameStat, 0, opt.Frames)
	}

	var sinceStep int
	for frame := 0; opt.Frames == 0 || frame < opt.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		sinceStep++
		if sinceStep >= opt.StepEvery {
			fitter.Step(opt.StepsPerTick)
			sinceStep = 0
		}

		stat := FrameStat{
			Frame: frame,
			FitSample: linefit.FitSample{
				Iteration: fitter.Iterations(),
				Line:      fitter.CurrentLine(),
				MSE:       fitter.MeanSquaredError(),
			},
		}

		if err := canvas.Draw(points, stat.Line); err != nil {
			return stats, fmt.Errorf("unable to draw frame %d, %w", frame, err)
		}
		if err := sink.WriteFrame(frame, canvas); err != nil {
			return stats, fmt.Errorf("unable to write frame %d, %w", frame, err)
		}
		if opt.Frames == 0 && len(stats) == opt.KeepStats {
			n := copy(stats, stats[1:])
			stats = stats[:n]
		}
		stats = append(stats, stat)

		slog.Debug("rendered frame",
			"frame", frame,
			"iterations", stat.Iteration,
			"slope", stat.Line.Slope,
			"intercept", stat.Line.Intercept,
			"error", stat.MSE,
		)
	}
	return stats, nil
}

// Samples strips the frame numbers from the stats
func Samples(stats []FrameStat) []linefit.FitSample {
	samples := make([]linefit.FitSample, 0, len(stats))
	for _, s := range stats {
		samples = append(samples, s.FitSample)
	}
	return samples
}

// DirSink writes each frame as a numbered png into a directory
type DirSink struct {
	Dir string
}

// NewDirSink creates the directory if it does not exist
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirSink{Dir: dir}, nil
}

// FramePath returns the file a frame is written to
func (d *DirSink) FramePath(frame int) string {
	return filepath.Join(d.Dir, fmt.Sprintf("frame_%05d.png", frame))
}

func (d *DirSink) WriteFrame(frame int, c *Canvas) error {
	file, err := os.Create(d.FramePath(frame))
	if err != nil {
		return err
	}
	if err := c.EncodePNG(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
