package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pongsakorn-w/crypto-dca-lab/internal/backtest"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/config"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// DefaultReporter implements the complete Reporter interface
type DefaultReporter struct {
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	excel   *DefaultExcelReporter
	charts  *ChartRenderer
	paths   *DefaultPathManager
}

// NewDefaultReporter creates a new default reporter with all functionality
func NewDefaultReporter() *DefaultReporter {
	return &DefaultReporter{
		console: NewDefaultConsoleReporter(),
		csv:     NewDefaultCSVReporter(),
		excel:   NewDefaultExcelReporter(),
		charts:  NewChartRenderer(),
		paths:   NewDefaultPathManager(),
	}
}

// Console output methods
func (r *DefaultReporter) PrintRunConfig(cfg *config.RunConfig) {
	r.console.PrintRunConfig(cfg)
}

func (r *DefaultReporter) PrintDCAResult(res *backtest.DCAResult) {
	r.console.PrintDCAResult(res)
}

func (r *DefaultReporter) PrintDipBuyResult(res *backtest.DipBuyResult) {
	r.console.PrintDipBuyResult(res)
}

func (r *DefaultReporter) PrintSeasonalRanking(results []*backtest.SeasonalResult) {
	r.console.PrintSeasonalRanking(results)
}

func (r *DefaultReporter) PrintComparison(res *backtest.ComparisonResult) {
	r.console.PrintComparison(res)
}

// File output methods
func (r *DefaultReporter) WritePurchasesCSV(purchases []backtest.Purchase, path string) error {
	return r.csv.WritePurchasesCSV(purchases, path)
}

func (r *DefaultReporter) WriteSeasonalCSV(results []*backtest.SeasonalResult, path string) error {
	return r.csv.WriteSeasonalCSV(results, path)
}

func (r *DefaultReporter) WriteComparisonCSV(res *backtest.ComparisonResult, path string) error {
	return r.csv.WriteComparisonCSV(res, path)
}

func (r *DefaultReporter) WriteIndicatorCSV(candles []types.OHLCV, names []string, series [][]float64, path string) error {
	return r.csv.WriteIndicatorCSV(candles, names, series, path)
}

func (r *DefaultReporter) WriteBacktestXLSX(summary *backtest.Summary, path string) error {
	return r.excel.WriteBacktestXLSX(summary, path)
}

// Chart methods
func (r *DefaultReporter) SavePriceChart(candles []types.OHLCV, purchases []backtest.Purchase, title, path string) error {
	return r.charts.SavePriceChart(candles, purchases, title, path)
}

func (r *DefaultReporter) SavePortfolioChart(purchases []backtest.Purchase, title, path string) error {
	return r.charts.SavePortfolioChart(purchases, title, path)
}

func (r *DefaultReporter) SaveSeasonalChart(results []*backtest.SeasonalResult, title, path string) error {
	return r.charts.SaveSeasonalChart(results, title, path)
}

// Path management methods
func (r *DefaultReporter) GetDefaultOutputDir(symbol, interval string) string {
	return r.paths.GetDefaultOutputDir(symbol, interval)
}

func (r *DefaultReporter) EnsureDirectoryExists(path string) error {
	return r.paths.EnsureDirectoryExists(path)
}

// SaveRunArtifacts writes the full artifact set for one strategy run:
// purchase log CSV, workbook, and the two run charts. Console output
// is left to the caller since interactive runs print before saving.
func (r *DefaultReporter) SaveRunArtifacts(summary *backtest.Summary, candles []types.OHLCV, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	if err := r.WritePurchasesCSV(summary.Purchases, filepath.Join(outputDir, "purchases.csv")); err != nil {
		return fmt.Errorf("failed to write purchase log: %w", err)
	}
	if err := r.WriteBacktestXLSX(summary, filepath.Join(outputDir, "backtest.xlsx")); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := r.SavePriceChart(candles, summary.Purchases, fmt.Sprintf("%s - %s", summary.Strategy, summary.Symbol), filepath.Join(outputDir, "price.png")); err != nil {
		return fmt.Errorf("failed to write price chart: %w", err)
	}
	if len(summary.Purchases) > 0 {
		if err := r.SavePortfolioChart(summary.Purchases, fmt.Sprintf("%s - Portfolio", summary.Symbol), filepath.Join(outputDir, "portfolio.png")); err != nil {
			return fmt.Errorf("failed to write portfolio chart: %w", err)
		}
	}
	return nil
}
