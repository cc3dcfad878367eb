package reporting

import (
	"fmt"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pongsakorn-w/crypto-dca-lab/internal/backtest"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// ChartRenderer renders run charts to PNG files with gonum/plot.
type ChartRenderer struct {
	paths *DefaultPathManager

	// Width in points; height is derived at a 16:9-ish ratio.
	Width vg.Length
}

// NewChartRenderer creates a chart renderer with default dimensions
func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{
		paths: NewDefaultPathManager(),
		Width: 12 * vg.Inch,
	}
}

func (r *ChartRenderer) save(p *plot.Plot, path string) error {
	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	width := r.Width
	height := width / 1.77
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return nil
}

func timeValue(t time.Time) float64 {
	return float64(t.Unix())
}

// SavePriceChart plots the close price over the run with purchase
// markers overlaid.
func (r *ChartRenderer) SavePriceChart(candles []types.OHLCV, purchases []backtest.Purchase, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Price"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	closes := make(plotter.XYs, len(candles))
	for i, c := range candles {
		closes[i].X = timeValue(c.Timestamp)
		closes[i].Y = c.Close
	}
	line, err := plotter.NewLine(closes)
	if err != nil {
		return fmt.Errorf("failed to build price line: %w", err)
	}
	p.Add(line)
	p.Legend.Add("Close", line)

	if len(purchases) > 0 {
		buys := make(plotter.XYs, len(purchases))
		for i, buy := range purchases {
			buys[i].X = timeValue(buy.Date)
			buys[i].Y = buy.Price
		}
		scatter, err := plotter.NewScatter(buys)
		if err != nil {
			return fmt.Errorf("failed to build purchase markers: %w", err)
		}
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add("Purchases", scatter)
	}

	return r.save(p, path)
}

// SavePortfolioChart plots portfolio value against cumulative cash
// contributed, sampled at each purchase.
func (r *ChartRenderer) SavePortfolioChart(purchases []backtest.Purchase, title, path string) error {
	if len(purchases) == 0 {
		return fmt.Errorf("no purchases to chart")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Value"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	value := make(plotter.XYs, len(purchases))
	invested := make(plotter.XYs, len(purchases))
	for i, buy := range purchases {
		x := timeValue(buy.Date)
		value[i].X = x
		value[i].Y = buy.TotalUnits * buy.Price
		invested[i].X = x
		invested[i].Y = buy.TotalInvested
	}

	valueLine, err := plotter.NewLine(value)
	if err != nil {
		return fmt.Errorf("failed to build value line: %w", err)
	}
	investedLine, err := plotter.NewLine(invested)
	if err != nil {
		return fmt.Errorf("failed to build invested line: %w", err)
	}
	investedLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(valueLine, investedLine)
	p.Legend.Add("Portfolio Value", valueLine)
	p.Legend.Add("Invested", investedLine)

	return r.save(p, path)
}

// SaveSeasonalChart renders the return of each target month as a bar
// chart, January through December.
func (r *ChartRenderer) SaveSeasonalChart(results []*backtest.SeasonalResult, title, path string) error {
	if len(results) == 0 {
		return fmt.Errorf("no seasonal results to chart")
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Return %"

	values := make(plotter.Values, len(results))
	labels := make([]string, len(results))
	for i, res := range results {
		values[i] = res.ReturnPct
		labels[i] = res.TargetMonth.String()[:3]
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("failed to build seasonal bars: %w", err)
	}
	p.Add(bars)
	p.NominalX(labels...)

	return r.save(p, path)
}
