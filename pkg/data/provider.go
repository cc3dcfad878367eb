package data

import (
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// DataManager combines all data operations in a convenient interface
type DataManager struct {
	provider DataProvider
	filter   DataFilter
	locator  FileLocator
}

// NewDataManager creates a new data manager with default components
func NewDataManager() *DataManager {
	return &DataManager{
		provider: NewCachedProvider(NewCSVProvider()),
		filter:   NewDefaultDataFilter(),
		locator:  NewDefaultFileLocator(),
	}
}

// NewDataManagerWithProvider creates a data manager with a custom provider
func NewDataManagerWithProvider(provider DataProvider) *DataManager {
	return &DataManager{
		provider: provider,
		filter:   NewDefaultDataFilter(),
		locator:  NewDefaultFileLocator(),
	}
}

// LoadHistoricalData loads raw candles from a file
func (dm *DataManager) LoadHistoricalData(filename string) ([]types.OHLCV, error) {
	return dm.provider.LoadData(filename)
}

// LoadSeries loads candles from a file, validates them, and wraps them
// in a Series ready for simulation.
func (dm *DataManager) LoadSeries(filename string) (*Series, error) {
	candles, err := dm.provider.LoadData(filename)
	if err != nil {
		return nil, err
	}
	if err := dm.provider.ValidateData(candles); err != nil {
		return nil, err
	}
	if err := dm.filter.ValidateTimeSequence(candles); err != nil {
		return nil, err
	}
	return NewSeries(candles)
}

// FindDataFile locates downloaded candle files
func (dm *DataManager) FindDataFile(dataRoot, exchange, symbol, interval string) string {
	return dm.locator.FindDataFile(dataRoot, exchange, symbol, interval)
}

// ValidateData validates loaded data
func (dm *DataManager) ValidateData(data []types.OHLCV) error {
	return dm.provider.ValidateData(data)
}

// GetFilter returns the data filter
func (dm *DataManager) GetFilter() DataFilter {
	return dm.filter
}
