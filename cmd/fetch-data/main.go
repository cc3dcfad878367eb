package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pongsakorn-w/crypto-dca-lab/cmd/common"
	"github.com/pongsakorn-w/crypto-dca-lab/internal/fetcher"
	"github.com/pongsakorn-w/crypto-dca-lab/internal/indicators"
	"github.com/pongsakorn-w/crypto-dca-lab/internal/monitoring"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/config"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/data"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/reporting"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

const appName = "fetch-data"

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

func run(flags *fetchFlags) error {
	cfg, err := buildConfig(flags)
	if err != nil {
		return err
	}

	start, end, err := cfg.ParseDateRange()
	if err != nil {
		return err
	}
	if start.IsZero() {
		return fmt.Errorf("a start date is required, pass -start YYYY-MM-DD")
	}
	if end.IsZero() {
		end = time.Now().UTC()
	}

	if cfg.MetricsPort > 0 {
		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		monitoring.StartMetricsServer(addr)
		common.Info("Prometheus metrics at http://localhost%s/metrics", addr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	downloader, err := buildDownloader(cfg.Exchange, *flags.category, fetcher.Options{
		PageSize:  *flags.pageSize,
		PageDelay: *flags.pageDelay,
	})
	if err != nil {
		return err
	}

	common.Header(fmt.Sprintf("Fetching %s %s from %s", cfg.Symbol, cfg.Interval, downloader.Name()))
	common.Progress("Window: %s → %s", start.Format("2006-01-02"), end.Format("2006-01-02"))

	began := time.Now()
	candles, err := downloader.Download(ctx, fetcher.Request{
		Symbol:   cfg.Symbol,
		Interval: cfg.Interval,
		Start:    start,
		End:      end,
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	common.Success("Fetched %d candles in %s", len(candles), time.Since(began).Round(time.Millisecond))

	// Page boundaries can overlap, so normalize before writing
	filter := data.NewDefaultDataFilter()
	deduped := filter.RemoveDuplicates(filter.SortByTimestamp(candles))
	if dropped := len(candles) - len(deduped); dropped > 0 {
		common.Warn("Dropped %d duplicate candles", dropped)
	}
	candles = deduped

	summary := types.Summarize(candles)
	common.Info("Price range $%.2f - $%.2f, last close $%.2f", summary.MinPrice, summary.MaxPrice, summary.LastClose)
	common.Info("Max drawdown over window: %.1f%%", indicators.MaxDrawdown(candles)*100)

	outPath := *flags.output
	if outPath == "" {
		outPath = data.CandleFilePath(common.ResolveDataRoot(*flags.common.DataRoot, cfg), cfg.Exchange, cfg.Symbol, cfg.Interval)
	}

	if *flags.indicators != "" {
		names, series, err := computeIndicators(*flags.indicators, candles)
		if err != nil {
			return err
		}
		if err := reporting.NewDefaultCSVReporter().WriteIndicatorCSV(candles, names, series, outPath); err != nil {
			return err
		}
	} else {
		if err := data.WriteCSV(candles, outPath); err != nil {
			return err
		}
	}

	common.Success("Saved to %s", outPath)
	return nil
}

func buildConfig(flags *fetchFlags) (*config.RunConfig, error) {
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
	if *flags.metricsPort > 0 {
		cfg.MetricsPort = *flags.metricsPort
	}

	if err := manager.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildDownloader(exchange, category string, opts fetcher.Options) (fetcher.Downloader, error) {
	switch exchange {
	case "binance":
		return fetcher.NewBinanceDownloader(opts), nil
	case "bybit":
		return fetcher.NewBybitDownloader(category, opts), nil
	default:
		return nil, fmt.Errorf("unsupported exchange %q", exchange)
	}
}

// computeIndicators parses specs like "sma:20,ema:50,rsi:14,returns"
// and evaluates each one over the candle table.
func computeIndicators(spec string, candles []types.OHLCV) ([]string, [][]float64, error) {
	var names []string
	var series [][]float64

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kind, periodStr, found := strings.Cut(part, ":")

		// Daily returns are parameterless
		if strings.EqualFold(kind, "returns") {
			if found {
				return nil, nil, fmt.Errorf("returns takes no period, got %q", part)
			}
			names = append(names, "daily_return")
			series = append(series, indicators.DailyReturns(candles))
			continue
		}

		if !found {
			return nil, nil, fmt.Errorf("invalid indicator spec %q, expected name:period", part)
		}
		period, err := strconv.Atoi(periodStr)
		if err != nil || period <= 0 {
			return nil, nil, fmt.Errorf("invalid indicator period in %q", part)
		}

		switch strings.ToLower(kind) {
		case "sma":
			names = append(names, fmt.Sprintf("sma_%d", period))
			series = append(series, indicators.NewSMA(period).Series(candles))
		case "ema":
			names = append(names, fmt.Sprintf("ema_%d", period))
			series = append(series, indicators.NewEMA(period).Series(candles))
		case "rsi":
			names = append(names, fmt.Sprintf("rsi_%d", period))
			series = append(series, indicators.NewRSI(period).Series(candles))
		default:
			return nil, nil, fmt.Errorf("unknown indicator %q, supported: sma, ema, rsi, returns", kind)
		}
	}

	if len(names) == 0 {
		return nil, nil, fmt.Errorf("no indicators parsed from %q", spec)
	}
	return names, series, nil
}
