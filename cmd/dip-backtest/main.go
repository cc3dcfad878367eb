package main

import (
	"flag"
	"os"
	"strings"

	"github.com/pongsakorn-w/crypto-dca-lab/cmd/common"
	"github.com/pongsakorn-w/crypto-dca-lab/internal/backtest"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/config"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/reporting"
)

const appName = "dip-backtest"

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

func run(flags *dipFlags) error {
	cfg, err := buildConfig(flags)
	if err != nil {
		return err
	}

	series, err := common.LoadSeriesForRun(cfg, *flags.common.DataRoot)
	if err != nil {
		return err
	}

	simulator := backtest.NewDipBuySimulator(backtest.DipBuyConfig{
		Symbol:       cfg.Symbol,
		DailySavings: cfg.DailySavings,
		DipThreshold: cfg.DipThreshold,
		MinPurchase:  cfg.MinPurchase,
	})
	result, err := simulator.Run(series)
	if err != nil {
		return err
	}

	reporter := reporting.NewDefaultReporter()
	reporter.PrintRunConfig(cfg)
	reporter.PrintDipBuyResult(result)

	if result.MissedDips > 0 {
		common.Warn("%d dip days passed with no cash on hand", result.MissedDips)
	}

	if *flags.consoleOnly {
		return nil
	}

	outputDir := *flags.output
	if outputDir == "" {
		outputDir = reporter.GetDefaultOutputDir(cfg.Symbol, cfg.Interval)
	}
	if err := reporter.SaveRunArtifacts(&result.Summary, series.Candles(), outputDir); err != nil {
		return err
	}
	common.Success("Artifacts saved to %s", outputDir)
	return nil
}

func buildConfig(flags *dipFlags) (*config.RunConfig, error) {
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
	if *flags.dailySavings > 0 {
		cfg.DailySavings = *flags.dailySavings
	}
	if *flags.dipThreshold != 0 {
		cfg.DipThreshold = *flags.dipThreshold
	}
	if *flags.minPurchase > 0 {
		cfg.MinPurchase = *flags.minPurchase
	}

	if err := manager.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
