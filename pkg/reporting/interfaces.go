package reporting

import (
	"github.com/pongsakorn-w/crypto-dca-lab/internal/backtest"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/config"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// Package reporting provides output generation for backtest results

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	PrintRunConfig(cfg *config.RunConfig)
	PrintDCAResult(res *backtest.DCAResult)
	PrintDipBuyResult(res *backtest.DipBuyResult)
	PrintSeasonalRanking(results []*backtest.SeasonalResult)
	PrintComparison(res *backtest.ComparisonResult)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WritePurchasesCSV(purchases []backtest.Purchase, path string) error
	WriteSeasonalCSV(results []*backtest.SeasonalResult, path string) error
	WriteComparisonCSV(res *backtest.ComparisonResult, path string) error
	WriteIndicatorCSV(candles []types.OHLCV, names []string, series [][]float64, path string) error
	WriteBacktestXLSX(summary *backtest.Summary, path string) error
}

// ChartWriter defines interface for chart rendering
type ChartWriter interface {
	SavePriceChart(candles []types.OHLCV, purchases []backtest.Purchase, title, path string) error
	SavePortfolioChart(purchases []backtest.Purchase, title, path string) error
	SaveSeasonalChart(results []*backtest.SeasonalResult, title, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(symbol, interval string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	ChartWriter
	PathManager
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle   int
	CurrencyStyle int
	PercentStyle  int
	BaseStyle     int
}
