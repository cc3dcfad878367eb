package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// CSVProvider implements DataProvider for CSV files
type CSVProvider struct {
	format CSVColumnMapping
}

// NewCSVProvider creates a new CSV data provider with default format
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{
		format: DefaultCSVFormat,
	}
}

// NewCSVProviderWithFormat creates a new CSV data provider with custom format
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{
		format: format,
	}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads historical data from a CSV file. A malformed row is an
// error, not a skip: backtests running on silently-thinned data produce
// numbers that look right and are not.
func (p *CSVProvider) LoadData(source string) ([]types.OHLCV, error) {
	return p.loadHistoricalDataWithFormat(source, p.format)
}

func (p *CSVProvider) loadHistoricalDataWithFormat(filename string, format CSVColumnMapping) ([]types.OHLCV, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var data []types.OHLCV

	lineNum := 1 // Start from 1 since we already read header
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		if len(record) < format.MinColumns {
			return nil, fmt.Errorf("insufficient columns at line %d (expected %d, got %d)", lineNum, format.MinColumns, len(record))
		}

		timestamp, err := time.Parse(format.DateFormat, record[format.TimestampCol])
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q at line %d: %w", record[format.TimestampCol], lineNum, err)
		}

		open, err := strconv.ParseFloat(record[format.OpenCol], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid open price %q at line %d: %w", record[format.OpenCol], lineNum, err)
		}

		high, err := strconv.ParseFloat(record[format.HighCol], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid high price %q at line %d: %w", record[format.HighCol], lineNum, err)
		}

		low, err := strconv.ParseFloat(record[format.LowCol], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid low price %q at line %d: %w", record[format.LowCol], lineNum, err)
		}

		closePrice, err := strconv.ParseFloat(record[format.CloseCol], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid close price %q at line %d: %w", record[format.CloseCol], lineNum, err)
		}

		volume, err := strconv.ParseFloat(record[format.VolumeCol], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid volume %q at line %d: %w", record[format.VolumeCol], lineNum, err)
		}

		data = append(data, types.OHLCV{
			Timestamp: timestamp,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
		})
	}

	return data, nil
}

// ValidateData validates the integrity of loaded data
func (p *CSVProvider) ValidateData(data []types.OHLCV) error {
	if len(data) == 0 {
		return fmt.Errorf("no data provided")
	}

	for i, candle := range data {
		// Validate price data
		if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
			return fmt.Errorf("invalid price data at index %d: prices must be positive", i)
		}

		if candle.High < candle.Low {
			return fmt.Errorf("invalid price data at index %d: high (%.4f) cannot be less than low (%.4f)",
				i, candle.High, candle.Low)
		}

		if candle.High < candle.Open || candle.High < candle.Close {
			return fmt.Errorf("invalid price data at index %d: high (%.4f) must be >= open (%.4f) and close (%.4f)",
				i, candle.High, candle.Open, candle.Close)
		}

		if candle.Low > candle.Open || candle.Low > candle.Close {
			return fmt.Errorf("invalid price data at index %d: low (%.4f) must be <= open (%.4f) and close (%.4f)",
				i, candle.Low, candle.Open, candle.Close)
		}

		// Validate timestamp sequence (should be in chronological order)
		if i > 0 && candle.Timestamp.Before(data[i-1].Timestamp) {
			return fmt.Errorf("invalid timestamp sequence at index %d: timestamps must be in chronological order", i)
		}
	}

	return nil
}
