package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/sitegrid/internal/fsutil"
	"github.com/banshee-data/sitegrid/internal/sites"
)

// ChancePoint is the chanced pick odds at one element count.
type ChancePoint struct {
	Count     int
	Threshold int
	Odds      float64 // probability that a chanced pick returns an element
}

// ChanceCurve tabulates the chanced pick odds for every count from 0 to
// capacity.
func ChanceCurve(capacity int) []ChancePoint {
	out := make([]ChancePoint, 0, capacity+1)
	for n := 0; n <= capacity; n++ {
		th := sites.ChanceThreshold(capacity, n)
		odds := 0.0
		if n > 0 {
			odds = 1 / float64(th)
		}
		out = append(out, ChancePoint{Count: n, Threshold: th, Odds: odds})
	}
	return out
}

// RenderChanceChart writes an HTML line chart of the chanced pick odds for
// capacity to w.
func RenderChanceChart(w io.Writer, capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	curve := ChanceCurve(capacity)

	xs := make([]string, 0, len(curve))
	odds := make([]opts.LineData, 0, len(curve))
	for _, pt := range curve {
		xs = append(xs, strconv.Itoa(pt.Count))
		odds = append(odds, opts.LineData{Value: pt.Odds})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Chanced pick odds", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Chanced pick odds", Subtitle: fmt.Sprintf("capacity=%d", capacity)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "elements", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "P(pick)", Min: 0, Max: 1}),
	)
	line.SetXAxis(xs).AddSeries("odds", odds, charts.WithLineChartOpts(opts.LineChart{Step: true}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chance chart: %w", err)
	}
	return nil
}

// WriteChanceChart renders the chanced pick chart for capacity into path.
func WriteChanceChart(fsys fsutil.FileSystem, path string, capacity int) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := RenderChanceChart(f, capacity); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
