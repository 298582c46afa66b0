// Command linefit fits a line to a csv of x,y points with gradient descent and optionally renders
// the fit frame by frame.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aouyang1/go-linefit"
	"github.com/aouyang1/go-linefit/dataset"
	"github.com/aouyang1/go-linefit/render"
	"github.com/goccy/go-json"
	"github.com/gogpu/gg"
)

type config struct {
	dataPath string
	header   bool
	swap     bool

	learningRate float64
	iterations   uint
	resumePath   string

	frames        int
	stepEvery     int
	stepsPerFrame uint
	frameDir      string
	width         int
	height        int

	plotPath  string
	modelPath string
	logLevel  string
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg := parseFlags()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", cfg.logLevel)
		return 2
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	gg.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := fit(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("interrupted")
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() config {
	var cfg config

	flag.StringVar(&cfg.dataPath, "data", "", "Path to a csv of x,y records (required)")
	flag.BoolVar(&cfg.header, "header", false, "Skip the first csv record")
	flag.BoolVar(&cfg.swap, "swap", false, "Records are stored as y,x")

	flag.Float64Var(&cfg.learningRate, "lr", linefit.DefaultLearningRate, "Gradient descent learning rate")
	flag.UintVar(&cfg.iterations, "iterations", 1000, "Iterations to run when not rendering frames")
	flag.StringVar(&cfg.resumePath, "resume", "", "Resume from a model json written by -model")

	flag.IntVar(&cfg.frames, "frames", 0, "Number of frames to render, 0 skips rendering")
	flag.IntVar(&cfg.stepEvery, "step-every", 1, "Frames between fit updates")
	flag.UintVar(&cfg.stepsPerFrame, "steps-per-frame", 1, "Iterations run on each fit update")
	flag.StringVar(&cfg.frameDir, "frame-dir", "frames", "Directory png frames are written to")
	flag.IntVar(&cfg.width, "width", 800, "Frame width in pixels")
	flag.IntVar(&cfg.height, "height", 600, "Frame height in pixels")

	flag.StringVar(&cfg.plotPath, "plot", "", "Write an html chart of the fit to this path")
	flag.StringVar(&cfg.modelPath, "model", "", "Write the fit model json to this path")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()
	return cfg
}

func loadPoints(cfg config) (dataset.Points, error) {
	if cfg.dataPath == "" {
		return nil, errors.New("-data is required")
	}
	file, err := os.Open(cfg.dataPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	opt := dataset.NewDefaultCSVOptions()
	opt.Header = cfg.header
	if cfg.swap {
		opt.XColumn, opt.YColumn = 1, 0
	}
	return dataset.ReadCSV(file, opt)
}

func newFitter(cfg config, points dataset.Points) (*linefit.Fitter, error) {
	if cfg.resumePath == "" {
		return linefit.New(points, &linefit.Options{LearningRate: cfg.learningRate})
	}

	b, err := os.ReadFile(cfg.resumePath)
	if err != nil {
		return nil, err
	}
	var model linefit.Model
	if err := json.Unmarshal(b, &model); err != nil {
		return nil, fmt.Errorf("unable to decode model %s, %w", cfg.resumePath, err)
	}
	f, err := linefit.NewFromModel(points, model)
	if err != nil {
		return nil, err
	}
	// an explicit -lr overrides the rate stored in the model
	flag.Visit(func(fl *flag.Flag) {
		if fl.Name == "lr" {
			f.SetLearningRate(cfg.learningRate)
		}
	})
	return f, nil
}

func fit(ctx context.Context, cfg config) error {
	points, err := loadPoints(cfg)
	if err != nil {
		return fmt.Errorf("unable to load points, %w", err)
	}
	slog.Info("loaded points", "path", cfg.dataPath, "count", len(points))

	f, err := newFitter(cfg, points)
	if err != nil {
		return fmt.Errorf("unable to create fitter, %w", err)
	}

	var history []linefit.FitSample
	if cfg.frames > 0 {
		history, err = renderFrames(ctx, cfg, f)
		if err != nil {
			return err
		}
	} else {
		if cfg.iterations > uint(^uint32(0)) {
			return fmt.Errorf("iterations %d exceeds %d", cfg.iterations, ^uint32(0))
		}
		history = append(history, f.Sample())
		f.Run(uint32(cfg.iterations))
		history = append(history, f.Sample())
	}

	if cfg.plotPath != "" {
		if err := writePlot(cfg.plotPath, f, history); err != nil {
			return fmt.Errorf("unable to write plot, %w", err)
		}
		slog.Info("wrote plot", "path", cfg.plotPath)
	}

	model, err := f.Model()
	if err != nil {
		return err
	}
	if cfg.modelPath != "" {
		b, err := json.MarshalIndent(model, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.modelPath, b, 0o644); err != nil {
			return fmt.Errorf("unable to write model, %w", err)
		}
		slog.Info("wrote model", "path", cfg.modelPath)
	}
	return model.TablePrint(os.Stdout)
}

func renderFrames(ctx context.Context, cfg config, f *linefit.Fitter) ([]linefit.FitSample, error) {
	if cfg.stepsPerFrame > uint(^uint32(0)) {
		return nil, fmt.Errorf("steps per frame %d exceeds %d", cfg.stepsPerFrame, ^uint32(0))
	}
	sink, err := render.NewDirSink(cfg.frameDir)
	if err != nil {
		return nil, fmt.Errorf("unable to create frame directory, %w", err)
	}

	canvasOpt := render.NewDefaultCanvasOptions()
	canvasOpt.Width = cfg.width
	canvasOpt.Height = cfg.height

	opt := &render.LoopOptions{
		Frames:       cfg.frames,
		StepEvery:    cfg.stepEvery,
		StepsPerTick: uint32(cfg.stepsPerFrame),
		Canvas:       canvasOpt,
	}
	stats, err := render.Run(ctx, f, sink, opt)
	if err != nil {
		return render.Samples(stats), err
	}
	slog.Info("rendered frames", "count", len(stats), "dir", cfg.frameDir, "iterations", f.Iterations())
	return render.Samples(stats), nil
}

func writePlot(path string, f *linefit.Fitter, history []linefit.FitSample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.PlotFit(file, history); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
