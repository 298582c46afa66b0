// Package render draws a point set and the line being fit to it, advancing the fit a few steps per
// frame.
package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/aouyang1/go-linefit"
	"github.com/aouyang1/go-linefit/dataset"
	"github.com/gogpu/gg"
)

var (
	ErrInvalidSize  = errors.New("canvas width and height must be positive")
	ErrCanvasClosed = errors.New("canvas is closed")
	ErrNoPoints     = errors.New("no points to frame the viewport")
)

// CanvasOptions configures the raster size, viewport padding and colors
type CanvasOptions struct {
	Width  int
	Height int

	// Padding is the fraction of the data span left empty on each side of the viewport
	Padding float64

	PointRadius float64
	LineWidth   float64

	Background string
	PointColor string
	LineColor  string
}

// NewDefaultCanvasOptions returns an 800x600 dark canvas
func NewDefaultCanvasOptions() *CanvasOptions {
	return &CanvasOptions{
		Width:       800,
		Height:      600,
		Padding:     0.05,
		PointRadius: 3,
		LineWidth:   2,
		Background:  "#16213e",
		PointColor:  "#e0e0e0",
		LineColor:   "#e94560",
	}
}

// Validate substitutes the default options on a nil receiver and checks the size
func (o *CanvasOptions) Validate() (*CanvasOptions, error) {
	if o == nil {
		o = NewDefaultCanvasOptions()
	}
	if o.Width <= 0 || o.Height <= 0 {
		return nil, fmt.Errorf("got %dx%d, %w", o.Width, o.Height, ErrInvalidSize)
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	return o, nil
}

// Canvas owns a raster drawing context sized to the options and a viewport mapping data
// coordinates to pixels. The context is released by Close, which callers should defer right
// after a successful NewCanvas.
type Canvas struct {
	opt *CanvasOptions
	dc  *gg.Context

	xMin, xMax float64
	yMin, yMax float64
}

// NewCanvas creates a canvas whose viewport frames the domain and range of the points
func NewCanvas(points dataset.Points, opt *CanvasOptions) (*Canvas, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	xMin, xMax := padSpan(points.Domain())
	yMin, yMax := padSpan(points.Range())
	xPad := (xMax - xMin) * opt.Padding
	yPad := (yMax - yMin) * opt.Padding

	c := &Canvas{
		opt:  opt,
		dc:   gg.NewContext(opt.Width, opt.Height),
		xMin: xMin - xPad,
		xMax: xMax + xPad,
		yMin: yMin - yPad,
		yMax: yMax + yPad,
	}
	return c, nil
}

// padSpan widens a zero width span so the viewport never divides by zero
func padSpan(lo, hi float64) (float64, float64) {
	if hi-lo == 0 {
		return lo - 1, hi + 1
	}
	return lo, hi
}

// Close releases the drawing context. Calling Close more than once is safe.
func (c *Canvas) Close() error {
	if c.dc == nil {
		return nil
	}
	err := c.dc.Close()
	c.dc = nil
	return err
}

// ToPixel maps a data coordinate to a pixel coordinate with y growing downward
func (c *Canvas) ToPixel(x, y float64) (float64, float64) {
	w := float64(c.opt.Width)
	h := float64(c.opt.Height)
	px := (x - c.xMin) / (c.xMax - c.xMin) * w
	py := h - (y-c.yMin)/(c.yMax-c.yMin)*h
	return px, py
}

// Draw clears the canvas, draws every point and the line between the x domain extremes of the
// points. A line that is no longer finite is not drawn.
func (c *Canvas) Draw(points dataset.Points, line linefit.Line) error {
	if c.dc == nil {
		return ErrCanvasClosed
	}

	c.dc.ClearWithColor(gg.Hex(c.opt.Background))

	c.dc.SetHexColor(c.opt.PointColor)
	for _, p := range points {
		px, py := c.ToPixel(p.X, p.Y)
		c.dc.DrawCircle(px, py, c.opt.PointRadius)
		if err := c.dc.Fill(); err != nil {
			return fmt.Errorf("unable to fill point, %w", err)
		}
	}

	xLo, xHi := points.Domain()
	yLo, yHi := line.At(xLo), line.At(xHi)
	if math.IsNaN(yLo) || math.IsInf(yLo, 0) || math.IsNaN(yHi) || math.IsInf(yHi, 0) {
		slog.Warn("skipping non-finite line", "slope", line.Slope, "intercept", line.Intercept)
		return nil
	}

	x0, y0 := c.ToPixel(xLo, yLo)
	x1, y1 := c.ToPixel(xHi, yHi)
	c.dc.SetHexColor(c.opt.LineColor)
	c.dc.SetLineWidth(c.opt.LineWidth)
	c.dc.DrawLine(x0, y0, x1, y1)
	if err := c.dc.Stroke(); err != nil {
		return fmt.Errorf("unable to stroke line, %w", err)
	}
	return nil
}

// Image returns the current raster
func (c *Canvas) Image() (image.Image, error) {
	if c.dc == nil {
		return nil, ErrCanvasClosed
	}
	return c.dc.Image(), nil
}

// EncodePNG writes the current raster to w
func (c *Canvas) EncodePNG(w io.Writer) error {
	if c.dc == nil {
		return ErrCanvasClosed
	}
	return c.dc.EncodePNG(w)
}
