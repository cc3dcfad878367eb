package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// WriteCSV writes candles to a CSV file in the standard layout
// (timestamp,open,high,low,close,volume). Parent directories are
// created as needed.
func WriteCSV(candles []types.OHLCV, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}

	for _, candle := range candles {
		record := []string{
			candle.Timestamp.Format("2006-01-02 15:04:05"),
			formatFloat(candle.Open),
			formatFloat(candle.High),
			formatFloat(candle.Low),
			formatFloat(candle.Close),
			formatFloat(candle.Volume),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// CandleFilePath returns the canonical on-disk location for a downloaded
// candle file: <root>/<EXCHANGE>/<SYMBOL>/<interval>/candles.csv.
func CandleFilePath(dataRoot, exchange, symbol, interval string) string {
	return filepath.Join(dataRoot, exchange, symbol, interval, "candles.csv")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseDate parses a user-supplied date in either date-only or full
// datetime form.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
}
