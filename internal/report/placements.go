package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/sitegrid/internal/fsutil"
	"github.com/banshee-data/sitegrid/internal/grid"
)

// PlotPlacements writes a top-down (X/Z) scatter of positions around origin
// to path as PNG. The parent directory is created when missing.
func PlotPlacements(fsys fsutil.FileSystem, positions []grid.Pos, origin grid.Pos, title, path string) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X offset (blocks)"
	p.Y.Label.Text = "Z offset (blocks)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, len(positions))
	for _, pos := range positions {
		pts = append(pts, plotter.XY{X: float64(pos.X - origin.X), Y: float64(pos.Z - origin.Z)})
	}

	if len(pts) > 0 {
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("failed to create scatter: %w", err)
		}
		sc.GlyphStyle.Color = color.RGBA{R: 31, G: 158, B: 137, A: 255}
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add("sites", sc)
	}

	o, err := plotter.NewScatter(plotter.XYs{{X: 0, Y: 0}})
	if err != nil {
		return fmt.Errorf("failed to create origin marker: %w", err)
	}
	o.GlyphStyle.Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	o.GlyphStyle.Shape = draw.CrossGlyph{}
	o.GlyphStyle.Radius = vg.Points(5)
	p.Add(o)
	p.Legend.Add("origin", o)

	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return f.Close()
}
