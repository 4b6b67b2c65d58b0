// Package render draws the study charts as PNG images.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/analysis"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Options sizes the rendered images.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions returns a size that reads well in a terminal image viewer or a doc.
func DefaultOptions() Options { return Options{Width: 800, Height: 500} }

func (o Options) normalize() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// RenderAll writes every chart the report has data for into dir and returns the
// written paths.
func RenderAll(rep *analysis.Report, dir string, opt Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir charts dir: %w", err)
	}
	type job struct {
		name string
		draw func(io.Writer) error
	}
	var jobs []job
	if len(rep.RegimenCounts) > 0 {
		jobs = append(jobs, job{"regimen_counts.png", func(w io.Writer) error { return Bar(w, rep.RegimenCounts, opt) }})
	}
	if len(rep.SexCounts) > 0 {
		jobs = append(jobs, job{"sex_distribution.png", func(w io.Writer) error { return Pie(w, rep.SexCounts, opt) }})
	}
	if len(rep.Outliers) > 0 {
		jobs = append(jobs, job{"final_volume_boxplot.png", func(w io.Writer) error { return Box(w, rep.Outliers, rep.IQRMultiplier, opt) }})
	}
	if rep.Timeline != nil && len(rep.Timeline.Points) >= 2 {
		name := fmt.Sprintf("timeline_%s.png", fileSafe(rep.Timeline.MouseID))
		jobs = append(jobs, job{name, func(w io.Writer) error { return Line(w, rep.Timeline, opt) }})
	}
	if rep.Scatter != nil {
		jobs = append(jobs, job{"weight_vs_volume.png", func(w io.Writer) error { return Scatter(w, rep.Scatter, opt) }})
	}
	var written []string
	for _, j := range jobs {
		p := filepath.Join(dir, j.name)
		if err := writeChart(p, j.draw); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}

func writeChart(path string, draw func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := draw(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// Bar draws observation counts per regimen.
func Bar(w io.Writer, counts []analysis.Count, opt Options) error {
	opt = opt.normalize()
	bars := make([]chart.Value, len(counts))
	top := 1.0
	for i, c := range counts {
		bars[i] = chart.Value{Value: float64(c.Count), Label: c.Value}
		top = math.Max(top, float64(c.Count))
	}
	barWidth := opt.Width / (2*len(counts) + 1)
	bc := chart.BarChart{
		Title:      "Number of Observations per Drug Regimen",
		Width:      opt.Width,
		Height:     opt.Height,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1}},
		Bars:       bars,
	}
	return bc.Render(chart.PNG, w)
}

// Pie draws the sex distribution.
func Pie(w io.Writer, counts []analysis.Count, opt Options) error {
	opt = opt.normalize()
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	values := make([]chart.Value, len(counts))
	for i, c := range counts {
		values[i] = chart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%s %.1f%%", c.Value, float64(c.Count)*100/float64(total)),
		}
	}
	pc := chart.PieChart{
		Title:  "Sex",
		Width:  opt.Height,
		Height: opt.Height,
		Values: values,
	}
	return pc.Render(chart.PNG, w)
}

// Box draws one box per regimen with whiskers at the most extreme values inside
// the regimen's outlier fences, and the remaining points as dots. The box always
// shows the regimen's own quartiles. The fences are reg.Lower and reg.Upper when
// set, so the dots match the report in either outlier scope; otherwise they are
// k IQRs from the box.
func Box(w io.Writer, regimens []analysis.RegimenOutliers, k float64, opt Options) error {
	opt = opt.normalize()
	if k <= 0 {
		k = analysis.DefaultIQRMultiplier
	}
	var series []chart.Series
	ticks := make([]chart.Tick, 0, len(regimens))
	boxStyle := chart.Style{StrokeColor: drawing.ColorBlue, StrokeWidth: 1.5}
	medianStyle := chart.Style{StrokeColor: drawing.ColorRed, StrokeWidth: 2}
	fliers := chart.ContinuousSeries{
		Name:  "outliers",
		Style: chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4, DotColor: drawing.ColorRed},
	}
	for i, reg := range regimens {
		x := float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: x, Label: reg.Regimen})
		b, err := boxFor(reg, k)
		if err != nil {
			continue
		}
		for _, v := range b.fliers {
			fliers.XValues = append(fliers.XValues, x)
			fliers.YValues = append(fliers.YValues, v)
		}
		q, wLo, wHi := b.q, b.wLo, b.wHi
		l, r := x-0.25, x+0.25
		series = append(series,
			segment(boxStyle, []float64{l, r, r, l, l}, []float64{q.Q1, q.Q1, q.Q3, q.Q3, q.Q1}),
			segment(medianStyle, []float64{l, r}, []float64{q.Q2, q.Q2}),
			segment(boxStyle, []float64{x, x}, []float64{q.Q3, wHi}),
			segment(boxStyle, []float64{x, x}, []float64{q.Q1, wLo}),
			segment(boxStyle, []float64{x - 0.1, x + 0.1}, []float64{wHi, wHi}),
			segment(boxStyle, []float64{x - 0.1, x + 0.1}, []float64{wLo, wLo}),
		)
	}
	if len(fliers.XValues) > 0 {
		series = append(series, fliers)
	}
	if len(series) == 0 {
		return fmt.Errorf("no regimen has enough final volumes for a box plot")
	}
	c := chart.Chart{
		Title:  "Final Tumor Volume by Regimen",
		Width:  opt.Width,
		Height: opt.Height,
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(regimens)) + 0.5},
		},
		YAxis:  chart.YAxis{Name: "Tumor Volume (mm3)"},
		Series: series,
	}
	return c.Render(chart.PNG, w)
}

// whiskerBox is the geometry of one box in a box plot.
type whiskerBox struct {
	q        analysis.QuartileSet
	wLo, wHi float64
	fliers   []float64
}

func boxFor(reg analysis.RegimenOutliers, k float64) (whiskerBox, error) {
	q, err := analysis.Quartiles(reg.Volumes)
	if err != nil {
		return whiskerBox{}, err
	}
	lo, hi := reg.Lower, reg.Upper
	if lo >= hi {
		lo, hi = analysis.BoundsK(q.Q1, q.Q3, k)
	}
	b := whiskerBox{q: q, wLo: q.Q1, wHi: q.Q3}
	for _, v := range reg.Volumes {
		if v < lo || v > hi {
			b.fliers = append(b.fliers, v)
			continue
		}
		b.wLo = math.Min(b.wLo, v)
		b.wHi = math.Max(b.wHi, v)
	}
	return b, nil
}

// Line draws one subject's tumor volume over time.
func Line(w io.Writer, tl *analysis.SubjectTimeline, opt Options) error {
	opt = opt.normalize()
	if len(tl.Points) < 2 {
		return fmt.Errorf("timeline for %s needs at least 2 points", tl.MouseID)
	}
	xs := make([]float64, len(tl.Points))
	ys := make([]float64, len(tl.Points))
	for i, p := range tl.Points {
		xs[i], ys[i] = float64(p.Timepoint), p.TumorVolume
	}
	c := chart.Chart{
		Title:  fmt.Sprintf("%s treatment of mouse %s", tl.Regimen, tl.MouseID),
		Width:  opt.Width,
		Height: opt.Height,
		XAxis:  chart.XAxis{Name: "Timepoint"},
		YAxis:  chart.YAxis{Name: "Tumor Volume (mm3)"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    tl.MouseID,
				Style:   chart.Style{StrokeColor: drawing.ColorBlue, StrokeWidth: 2, DotWidth: 3, DotColor: drawing.ColorBlue},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return c.Render(chart.PNG, w)
}

// Scatter draws mean weight against mean tumor volume with the fitted line.
func Scatter(w io.Writer, wv *analysis.WeightVolume, opt Options) error {
	opt = opt.normalize()
	if len(wv.Weights) < 2 {
		return fmt.Errorf("scatter for %s needs at least 2 mice", wv.Regimen)
	}
	minX, maxX := wv.Weights[0], wv.Weights[0]
	for _, x := range wv.Weights {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
	}
	c := chart.Chart{
		Title:  fmt.Sprintf("%s: weight vs. average tumor volume (r=%.2f)", wv.Regimen, wv.Fit.R),
		Width:  opt.Width,
		Height: opt.Height,
		XAxis:  chart.XAxis{Name: "Weight (g)"},
		YAxis:  chart.YAxis{Name: "Tumor Volume (mm3)"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "mice",
				Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 5, DotColor: drawing.ColorBlue},
				XValues: wv.Weights,
				YValues: wv.Volumes,
			},
			segment(chart.Style{StrokeColor: drawing.ColorRed, StrokeWidth: 2},
				[]float64{minX, maxX},
				[]float64{wv.Fit.Predict(minX), wv.Fit.Predict(maxX)}),
		},
	}
	return c.Render(chart.PNG, w)
}

func segment(style chart.Style, xs, ys []float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{Style: style, XValues: xs, YValues: ys}
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
