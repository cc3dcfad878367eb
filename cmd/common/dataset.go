package common

import (
	"fmt"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/config"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/data"
)

// ResolveDataRoot picks between the -data-root flag and the config
// file value. An explicitly changed flag wins; the flag's default
// yields to whatever the config carries.
func ResolveDataRoot(flagRoot string, cfg *config.RunConfig) string {
	if flagRoot != "data" || cfg.DataRoot == "" {
		return flagRoot
	}
	return cfg.DataRoot
}

// LoadSeriesForRun locates the candle file for the configured symbol,
// loads and validates it, applies the optional date window, and
// returns the resulting series.
func LoadSeriesForRun(cfg *config.RunConfig, flagRoot string) (*data.Series, error) {
	dm := data.NewDataManager()

	dataRoot := ResolveDataRoot(flagRoot, cfg)
	path := dm.FindDataFile(dataRoot, cfg.Exchange, cfg.Symbol, cfg.Interval)
	if path == "" {
		return nil, fmt.Errorf("no candle file found for %s %s under %s, run fetch-data first", cfg.Symbol, cfg.Interval, dataRoot)
	}

	candles, err := dm.LoadHistoricalData(path)
	if err != nil {
		return nil, err
	}
	if err := dm.ValidateData(candles); err != nil {
		return nil, fmt.Errorf("invalid data in %s: %w", path, err)
	}

	start, end, err := cfg.ParseDateRange()
	if err != nil {
		return nil, err
	}
	if !start.IsZero() || !end.IsZero() {
		if end.IsZero() {
			end = candles[len(candles)-1].Timestamp
		}
		candles = dm.GetFilter().FilterByDateRange(candles, start, end)
		if len(candles) == 0 {
			return nil, fmt.Errorf("no candles left in window %s → %s", cfg.StartDate, cfg.EndDate)
		}
	}

	series, err := data.NewSeries(candles)
	if err != nil {
		return nil, err
	}

	Info("Loaded %d candles from %s (%s → %s)", series.Len(), path,
		series.First().Timestamp.Format("2006-01-02"), series.Last().Timestamp.Format("2006-01-02"))
	return series, nil
}
