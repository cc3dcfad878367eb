package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/pongsakorn-w/crypto-dca-lab/cmd/common"
	"github.com/pongsakorn-w/crypto-dca-lab/internal/backtest"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/config"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/reporting"
)

const appName = "compare-strategies"

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

func run(flags *compareFlags) error {
	cfg, err := buildConfig(flags)
	if err != nil {
		return err
	}

	series, err := common.LoadSeriesForRun(cfg, *flags.common.DataRoot)
	if err != nil {
		return err
	}

	comparator := backtest.NewComparator(backtest.ComparatorConfig{
		Symbol:        cfg.Symbol,
		MonthlyAmount: cfg.MonthlyAmount,
		DayOfMonth:    cfg.DayOfMonth,
		DipThreshold:  cfg.DipThreshold,
	})
	result, err := comparator.Run(series)
	if err != nil {
		return err
	}

	reporter := reporting.NewDefaultReporter()
	reporter.PrintRunConfig(cfg)
	reporter.PrintDCAResult(result.DCA)
	reporter.PrintDipBuyResult(result.Dip)
	reporter.PrintComparison(result)

	if *flags.consoleOnly {
		return nil
	}

	outputDir := *flags.output
	if outputDir == "" {
		outputDir = reporter.GetDefaultOutputDir(cfg.Symbol, cfg.Interval)
	}

	if err := reporter.WriteComparisonCSV(result, filepath.Join(outputDir, "comparison.csv")); err != nil {
		return err
	}
	if err := reporter.WritePurchasesCSV(result.DCA.Purchases, filepath.Join(outputDir, "dca_purchases.csv")); err != nil {
		return err
	}
	if err := reporter.WritePurchasesCSV(result.Dip.Purchases, filepath.Join(outputDir, "dip_purchases.csv")); err != nil {
		return err
	}
	common.Success("Artifacts saved to %s", outputDir)
	return nil
}

func buildConfig(flags *compareFlags) (*config.RunConfig, error) {
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
	if *flags.dayOfMonth > 0 {
		cfg.DayOfMonth = *flags.dayOfMonth
	}
	if *flags.dipThreshold != 0 {
		cfg.DipThreshold = *flags.dipThreshold
	}

	if err := manager.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
