package data

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileLocator implements FileLocator for standard file system operations
type DefaultFileLocator struct{}

// NewDefaultFileLocator creates a new default file locator
func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

// FindDataFile attempts to locate a downloaded candle file.
// Structure: data/{exchange}/{symbol}/{interval}/candles.csv
// Returns empty string if no file is found.
func (f *DefaultFileLocator) FindDataFile(dataRoot, exchange, symbol, interval string) string {
	symbol = strings.ToUpper(symbol)

	var attemptedPaths []string

	// Exchange-qualified layout first, then the flat layout older
	// downloads used.
	candidates := []string{
		filepath.Join(dataRoot, strings.ToLower(exchange), symbol, interval, "candles.csv"),
		filepath.Join(dataRoot, symbol, interval, "candles.csv"),
	}

	for _, path := range candidates {
		attemptedPaths = append(attemptedPaths, path)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	log.Printf("⚠️ No data file found for %s %s %s in:", exchange, symbol, interval)
	for _, path := range attemptedPaths {
		log.Printf("   - %s", path)
	}

	return ""
}
