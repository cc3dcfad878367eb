package reporting

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/pongsakorn-w/crypto-dca-lab/internal/backtest"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// DefaultCSVReporter implements CSV file output functionality
type DefaultCSVReporter struct {
	paths *DefaultPathManager
}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{paths: NewDefaultPathManager()}
}

func (r *DefaultCSVReporter) writeRows(path string, rows [][]string) error {
	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	return w.Error()
}

// WritePurchasesCSV writes the purchase log with running totals
func (r *DefaultCSVReporter) WritePurchasesCSV(purchases []backtest.Purchase, path string) error {
	rows := [][]string{{"date", "price", "cash_spent", "units_acquired", "total_invested", "total_units", "avg_cost"}}
	for _, p := range purchases {
		rows = append(rows, []string{
			p.Date.Format("2006-01-02"),
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.FormatFloat(p.CashSpent, 'f', 2, 64),
			strconv.FormatFloat(p.UnitsAcquired, 'f', 8, 64),
			strconv.FormatFloat(p.TotalInvested, 'f', 2, 64),
			strconv.FormatFloat(p.TotalUnits, 'f', 8, 64),
			strconv.FormatFloat(p.AvgCost, 'f', 2, 64),
		})
	}
	return r.writeRows(path, rows)
}

// WriteSeasonalCSV writes the twelve ranked seasonal runs
func (r *DefaultCSVReporter) WriteSeasonalCSV(results []*backtest.SeasonalResult, path string) error {
	rows := [][]string{{"rank", "target_month", "num_purchases", "total_invested", "cash_remaining", "total_units", "avg_cost", "total_value", "return_pct"}}
	for _, res := range results {
		rows = append(rows, []string{
			strconv.Itoa(res.Rank),
			res.TargetMonth.String(),
			strconv.Itoa(res.NumPurchases),
			strconv.FormatFloat(res.TotalInvested, 'f', 2, 64),
			strconv.FormatFloat(res.CashRemaining, 'f', 2, 64),
			strconv.FormatFloat(res.TotalUnits, 'f', 8, 64),
			strconv.FormatFloat(res.AvgCost, 'f', 2, 64),
			strconv.FormatFloat(res.TotalValue, 'f', 2, 64),
			strconv.FormatFloat(res.ReturnPct, 'f', 2, 64),
		})
	}
	return r.writeRows(path, rows)
}

// WriteComparisonCSV writes the scored comparison matrix
func (r *DefaultCSVReporter) WriteComparisonCSV(res *backtest.ComparisonResult, path string) error {
	rows := [][]string{{"dimension", "simple_dca", "buy_the_dip", "winner"}}
	for _, dim := range res.Dimensions {
		rows = append(rows, []string{
			dim.Name,
			formatCSVFloat(dim.DCAValue),
			formatCSVFloat(dim.DipValue),
			dim.Winner,
		})
	}
	rows = append(rows, []string{"Score", strconv.Itoa(res.DCAScore), strconv.Itoa(res.DipScore), res.Overall})
	return r.writeRows(path, rows)
}

// WriteIndicatorCSV writes candles with extra indicator columns
// appended after the standard six. Each indicator series must be the
// same length as the candle slice; NaN warmup values become empty
// cells.
func (r *DefaultCSVReporter) WriteIndicatorCSV(candles []types.OHLCV, names []string, series [][]float64, path string) error {
	for idx, s := range series {
		if len(s) != len(candles) {
			return fmt.Errorf("indicator %s has %d values for %d candles", names[idx], len(s), len(candles))
		}
	}

	header := append([]string{"timestamp", "open", "high", "low", "close", "volume"}, names...)
	rows := [][]string{header}
	for i, c := range candles {
		row := []string{
			c.Timestamp.Format("2006-01-02 15:04:05"),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
			strconv.FormatFloat(c.Volume, 'f', -1, 64),
		}
		for _, s := range series {
			if math.IsNaN(s[i]) {
				row = append(row, "")
			} else {
				row = append(row, strconv.FormatFloat(s[i], 'f', -1, 64))
			}
		}
		rows = append(rows, row)
	}
	return r.writeRows(path, rows)
}

func formatCSVFloat(v float64) string {
	if math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
