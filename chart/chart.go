// Package chart samples f and g around the initial guess and renders them,
// with the root marked, using gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/njchilds90/hybridroot/symbolic"
)

const (
	// HalfWidth is the distance sampled on each side of x0.
	HalfWidth = 5.0
	// Step is the sampling interval.
	Step = 0.1

	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var ErrNoPoints = errors.New("chart: no finite points to plot")

var (
	colorF    = color.RGBA{B: 255, A: 255}
	colorG    = color.RGBA{R: 255, A: 255}
	colorRoot = color.RGBA{G: 128, A: 255}
	colorZero = color.RGBA{R: 230, G: 200, A: 255}
)

// Domain returns x0-HalfWidth + i*Step for every i with the value below
// x0+HalfWidth. The upper end is excluded.
func Domain(x0 float64) []float64 {
	lo, hi := x0-HalfWidth, x0+HalfWidth
	xs := make([]float64, 0, int(2*HalfWidth/Step)+1)
	for i := 0; ; i++ {
		x := lo + float64(i)*Step
		if x >= hi {
			break
		}
		xs = append(xs, x)
	}
	return xs
}

// Sample evaluates fn at each x. Points where evaluation fails are left out.
func Sample(fn symbolic.Function, xs []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(xs))
	for _, x := range xs {
		y, err := fn.Eval(x)
		if err != nil {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	return pts
}

// Spec describes one chart. Zero Width or Height uses the defaults.
type Spec struct {
	FText, GText  string
	F, G          symbolic.Function
	X0, Root      float64
	Width, Height vg.Length
}

func (s Spec) size() (vg.Length, vg.Length) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// New builds the plot: f in blue, g in red, the root as a green marker at
// (root, f(root)), and the y=0 axis.
func New(s Spec) (*plot.Plot, error) {
	xs := Domain(s.X0)
	fPts, gPts := Sample(s.F, xs), Sample(s.G, xs)
	if len(fPts) == 0 && len(gPts) == 0 {
		return nil, ErrNoPoints
	}
	rootY, err := s.F.Eval(s.Root)
	if err != nil {
		return nil, fmt.Errorf("chart: f at root: %w", err)
	}

	p := plot.New()
	p.Title.Text = "Plot of f(x) and g(x)"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "Function values"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = colorZero
	p.Add(zero)

	if err := addLine(p, fPts, colorF, legend("f(x)", s.FText)); err != nil {
		return nil, err
	}
	if err := addLine(p, gPts, colorG, legend("g(x)", s.GText)); err != nil {
		return nil, err
	}

	marker, err := plotter.NewScatter(plotter.XYs{{X: s.Root, Y: rootY}})
	if err != nil {
		return nil, err
	}
	marker.GlyphStyle.Color = colorRoot
	marker.GlyphStyle.Radius = vg.Points(5)
	marker.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(marker)
	p.Legend.Add("Root", marker)
	return p, nil
}

func addLine(p *plot.Plot, pts plotter.XYs, c color.Color, name string) error {
	if len(pts) == 0 {
		return nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("chart: %s: %w", name, err)
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

func legend(label, text string) string {
	if text == "" {
		return label
	}
	return label + " = " + text
}

// Render writes the chart in format ("png", "svg", "pdf", ...) to w.
func Render(w io.Writer, format string, s Spec) error {
	p, err := New(s)
	if err != nil {
		return err
	}
	width, height := s.size()
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save writes the chart to path; the extension picks the format.
func Save(path string, s Spec) error {
	p, err := New(s)
	if err != nil {
		return err
	}
	width, height := s.size()
	return p.Save(width, height, path)
}
