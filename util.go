package linefit

import (
	"io"
	"math"

	"github.com/aouyang1/go-linefit/dataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ScatterFit generates an echart scatter plot of the points overlapped with the line drawn across
// the x domain of the points.
func ScatterFit(title string, points dataset.Points, line Line) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    title,
				Subtitle: line.String(),
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: "x",
				Type: "value",
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: "y",
				Type: "value",
			},
		),
	)

	scatterData := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		scatterData = append(scatterData, opts.ScatterData{Value: []float64{p.X, p.Y}})
	}
	scatter.AddSeries("Points", scatterData)

	xMin, xMax := points.Domain()
	fit := charts.NewLine()
	fit.AddSeries("Fit", []opts.LineData{
		{Value: []float64{xMin, line.At(xMin)}},
		{Value: []float64{xMax, line.At(xMax)}},
	})
	scatter.Overlap(fit)

	return scatter
}

// LineMSE generates an echart line chart of the mean squared error by iteration
func LineMSE(title string, history []FitSample) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	iterations := make([]uint64, 0, len(history))
	lineData := make([]opts.LineData, 0, len(history))
	for _, s := range history {
		if math.IsNaN(s.MSE) || math.IsInf(s.MSE, 0) {
			continue
		}
		iterations = append(iterations, s.Iteration)
		lineData = append(lineData, opts.LineData{Value: s.MSE})
	}

	line.SetXAxis(iterations).
		AddSeries("MSE", lineData)
	return line
}

// PlotFit uses the Apache Echarts library to generate an html page showing the current fit and,
// if a history is provided, the error by iteration
func (f *Fitter) PlotFit(w io.Writer, history []FitSample) error {
	page := components.NewPage()
	page.AddCharts(
		ScatterFit("Line Fit", f.points, f.line),
	)
	if len(history) > 0 {
		page.AddCharts(
			LineMSE("Mean Squared Error", history),
		)
	}
	return page.Render(w)
}
