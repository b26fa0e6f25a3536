// Package render draws particle configurations and dipole trajectories as
// PNG charts.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	dipole "github.com/funkymunkycool/classical-dipoles"
)

const (
	FileParticles  = "particles.png"
	FileDipoles    = "dipole_migration.png"
	FileMagnitudes = "dipole_magnitudes.png"
)

// frameSpacing is the horizontal distance between the dipole arrows of
// consecutive frames.
const frameSpacing = 5.0

// Style is how a species is drawn.  Radius is the marker size of a fully
// occupied site.
type Style struct {
	Color  drawing.Color
	Radius float64
}

type Table map[dipole.Species]Style

func DefaultTable() Table {
	return Table{
		dipole.Mg: {Color: drawing.ColorFromHex("fa8072"), Radius: 35},
		dipole.O:  {Color: drawing.ColorFromHex("ff0000"), Radius: 55},
		dipole.V:  {Color: drawing.ColorFromHex("0000ff"), Radius: 65},
	}
}

// ParseTable builds a table from hex colors and radii keyed by species
// name.
func ParseTable(colors map[string]string, radii map[string]float64) (Table, error) {
	t := Table{}
	for name, hex := range colors {
		sp := dipole.Species(name)
		if !sp.Valid() {
			return nil, fmt.Errorf("%w: unknown species %q in render table", dipole.ConfigurationErr, name)
		}
		r, ok := radii[name]
		if !ok || !(r > 0) {
			return nil, fmt.Errorf("%w: species %q needs a positive radius", dipole.ConfigurationErr, name)
		}
		t[sp] = Style{Color: drawing.ColorFromHex(strings.TrimPrefix(hex, "#")), Radius: r}
	}
	return t, nil
}

func (t Table) Lookup(sp dipole.Species) (Style, error) {
	st, ok := t[sp]
	if !ok {
		return Style{}, fmt.Errorf("%w: species %q missing from render table", dipole.ConfigurationErr, sp)
	}
	return st, nil
}

// Renderer draws charts of a fixed size using a species table.
type Renderer struct {
	Table  Table
	Width  int
	Height int
}

func New(t Table, width, height int) *Renderer {
	return &Renderer{Table: t, Width: width, Height: height}
}

func (r *Renderer) styles(c dipole.Configuration) ([]Style, error) {
	styles := make([]Style, len(c))
	for i, p := range c {
		st, err := r.Table.Lookup(p.Species)
		if err != nil {
			return nil, err
		}
		styles[i] = st
	}
	return styles, nil
}

// Particles draws every particle of c at its position.  Marker size is the
// species radius scaled by the particle's weight so empty sites vanish.
func (r *Renderer) Particles(w io.Writer, c dipole.Configuration) error {
	if len(c) == 0 {
		return fmt.Errorf("%w: no particles to draw", dipole.ConfigurationErr)
	}
	styles, err := r.styles(c)
	if err != nil {
		return err
	}

	xs := make([]float64, len(c))
	ys := make([]float64, len(c))
	for i, p := range c {
		xs[i], ys[i] = p.Pos.X, p.Pos.Y
	}

	series := chart.ContinuousSeries{
		Name:    "particles",
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    1,
			DotColorProvider: func(_, _ chart.Range, i int, _, _ float64) drawing.Color {
				return styles[i].Color
			},
			DotWidthProvider: func(_, _ chart.Range, i int, _, _ float64) float64 {
				return styles[i].Radius * c[i].Weight / 2
			},
		},
	}

	graph := chart.Chart{
		Width:  r.Width,
		Height: r.Height,
		XAxis: chart.XAxis{
			Name:  "x position",
			Range: padded(floats.Min(xs), floats.Max(xs), 0.2),
		},
		YAxis: chart.YAxis{
			Name:  "y position",
			Range: padded(floats.Min(ys), floats.Max(ys), 0.2),
		},
		Series: []chart.Series{series},
	}
	return graph.Render(chart.PNG, w)
}

// Dipoles draws the per-particle dipole vectors of every frame as arrows
// starting on the x axis, one group of arrows per frame.
func (r *Renderer) Dipoles(w io.Writer, tr *dipole.Trajectory) error {
	if tr.Len() == 0 {
		return fmt.Errorf("%w: empty trajectory", dipole.ConfigurationErr)
	}
	styles, err := r.styles(tr.Frames[0].Config)
	if err != nil {
		return err
	}

	var series []chart.Series
	var dys []float64
	for i, f := range tr.Frames {
		x := float64(i) * frameSpacing
		for j, d := range f.Dipoles {
			series = append(series, chart.ContinuousSeries{
				XValues: []float64{x, x + d.X},
				YValues: []float64{0, d.Y},
				Style: chart.Style{
					StrokeColor: styles[j].Color,
					StrokeWidth: 2,
				},
			})
			dys = append(dys, d.Y)
		}
	}
	if len(dys) == 0 {
		return fmt.Errorf("%w: trajectory frames have no particles", dipole.ConfigurationErr)
	}

	graph := chart.Chart{
		Width:  r.Width,
		Height: r.Height,
		XAxis: chart.XAxis{
			Name:  "Migration trajectory",
			Range: &chart.ContinuousRange{Min: -frameSpacing, Max: float64(tr.Len())*frameSpacing + frameSpacing},
		},
		YAxis: chart.YAxis{
			Name:  "Dipole Moment",
			Range: padded(floats.Min(dys), floats.Max(dys), 0),
		},
		Series: series,
	}
	return graph.Render(chart.PNG, w)
}

// Magnitudes plots the signed dipole magnitude against frame index.
func (r *Renderer) Magnitudes(w io.Writer, tr *dipole.Trajectory) error {
	if tr.Len() == 0 {
		return fmt.Errorf("%w: empty trajectory", dipole.ConfigurationErr)
	}
	mags := tr.Magnitudes()
	idx := make([]float64, len(mags))
	for i := range idx {
		idx[i] = float64(i)
	}

	graph := chart.Chart{
		Width:  r.Width,
		Height: r.Height,
		XAxis: chart.XAxis{
			Name:  "Migration trajectory",
			Range: padded(0, float64(len(mags)-1), 0),
		},
		YAxis: chart.YAxis{
			Name:  "Dipole Moment",
			Range: padded(floats.Min(mags), floats.Max(mags), 0),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "signed magnitude",
				XValues: idx,
				YValues: mags,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("1f77b4"),
					StrokeWidth: 2,
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}

// SaveAll writes the particle, dipole and magnitude charts of sys into dir
// and returns the paths written.  sys must have been run.
func (r *Renderer) SaveAll(dir string, sys *dipole.System) ([]string, error) {
	tr := sys.Trajectory()
	if tr == nil {
		return nil, fmt.Errorf("%w: system has no trajectory", dipole.ConfigurationErr)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	jobs := []struct {
		name string
		draw func(io.Writer) error
	}{
		{FileParticles, func(w io.Writer) error { return r.Particles(w, sys.Start) }},
		{FileDipoles, func(w io.Writer) error { return r.Dipoles(w, tr) }},
		{FileMagnitudes, func(w io.Writer) error { return r.Magnitudes(w, tr) }},
	}

	paths := make([]string, 0, len(jobs))
	for _, job := range jobs {
		path := filepath.Join(dir, job.name)
		if err := save(path, job.draw); err != nil {
			return paths, fmt.Errorf("render %v: %w", job.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func save(path string, draw func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := draw(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// padded returns [lo-pad, hi+pad], widened to unit length when the data is
// flat since a chart cannot scale a zero-width range.
func padded(lo, hi, pad float64) *chart.ContinuousRange {
	lo, hi = lo-pad, hi+pad
	if hi-lo < 1e-9 {
		lo, hi = lo-0.5, hi+0.5
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}
