package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pongsakorn-w/crypto-dca-lab/cmd/common"
	"github.com/pongsakorn-w/crypto-dca-lab/internal/backtest"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/config"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/reporting"
)

const appName = "seasonal-backtest"

func main() {
	flags := registerFlags()
	flag.Parse()

	if flags.common.Apply(appName) {
		return
	}

	if err := run(flags); err != nil {
		common.Error("%v", err)
		os.Exit(1)
	}
}

func run(flags *seasonalFlags) error {
	cfg, err := buildConfig(flags)
	if err != nil {
		return err
	}

	series, err := common.LoadSeriesForRun(cfg, *flags.common.DataRoot)
	if err != nil {
		return err
	}

	reporter := reporting.NewDefaultReporter()
	reporter.PrintRunConfig(cfg)

	// Single-month mode runs one simulation; the default ranks all
	// twelve target months against each other.
	if *flags.month > 0 {
		simulator := backtest.NewSeasonalSimulator(backtest.SeasonalConfig{
			Symbol:        cfg.Symbol,
			MonthlyAmount: cfg.MonthlyAmount,
			TargetMonth:   time.Month(*flags.month),
		})
		result, err := simulator.Run(series)
		if err != nil {
			return err
		}

		reporter.PrintSeasonalRanking([]*backtest.SeasonalResult{result})

		if *flags.consoleOnly {
			return nil
		}
		outputDir := outputDirFor(flags, reporter, cfg)
		if err := reporter.SaveRunArtifacts(&result.Summary, series.Candles(), outputDir); err != nil {
			return err
		}
		common.Success("Artifacts saved to %s", outputDir)
		return nil
	}

	results, err := backtest.RunAllMonths(series, cfg.Symbol, cfg.MonthlyAmount)
	if err != nil {
		return err
	}

	reporter.PrintSeasonalRanking(results)

	if *flags.consoleOnly {
		return nil
	}

	outputDir := outputDirFor(flags, reporter, cfg)
	if err := reporter.WriteSeasonalCSV(results, filepath.Join(outputDir, "seasonal.csv")); err != nil {
		return err
	}
	if err := reporter.SaveSeasonalChart(results, "Seasonal DCA - "+cfg.Symbol, filepath.Join(outputDir, "seasonal.png")); err != nil {
		return err
	}
	common.Success("Artifacts saved to %s", outputDir)
	return nil
}

func outputDirFor(flags *seasonalFlags, reporter *reporting.DefaultReporter, cfg *config.RunConfig) string {
	if *flags.output != "" {
		return *flags.output
	}
	return reporter.GetDefaultOutputDir(cfg.Symbol, cfg.Interval)
}

func buildConfig(flags *seasonalFlags) (*config.RunConfig, error) {
	manager := config.NewRunConfigManager()
	cfg, err := manager.LoadConfig(*flags.common.ConfigFile)
	if err != nil {
		return nil, err
	}

	if *flags.symbol != "" {
		cfg.Symbol = strings.ToUpper(*flags.symbol)
	}
	if *flags.interval != "" {
		cfg.Interval = *flags.interval
	}
	if *flags.exchange != "" {
		cfg.Exchange = strings.ToLower(*flags.exchange)
	}
	if *flags.startDate != "" {
		cfg.StartDate = *flags.startDate
	}
	if *flags.endDate != "" {
		cfg.EndDate = *flags.endDate
	}
	if *flags.amount > 0 {
		cfg.MonthlyAmount = *flags.amount
	}
	if *flags.month > 0 {
		cfg.TargetMonth = *flags.month
	}

	if err := manager.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
