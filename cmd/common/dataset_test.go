package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/config"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/data"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// writeCandleFile lays out a candle file under root the way fetch-data
// does, at <root>/binance/BTCUSDT/1d/candles.csv.
func writeCandleFile(t *testing.T, root string, candles []types.OHLCV) {
	t.Helper()
	path := data.CandleFilePath(root, "binance", "BTCUSDT", "1d")
	require.NoError(t, data.WriteCSV(candles, path))
}

func testCandles(n int, priceAt func(i int) float64) []types.OHLCV {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.OHLCV, n)
	for i := 0; i < n; i++ {
		price := priceAt(i)
		candles[i] = types.OHLCV{
			Timestamp: start.AddDate(0, 0, i),
			Open:      price,
			High:      price * 1.01,
			Low:       price * 0.99,
			Close:     price,
			Volume:    1000,
		}
	}
	return candles
}

func runConfigFor(root string) *config.RunConfig {
	cfg := config.NewDefaultRunConfig()
	cfg.Symbol = "BTCUSDT"
	cfg.Interval = "1d"
	cfg.Exchange = "binance"
	cfg.DataRoot = root
	return cfg
}

func TestLoadSeriesForRun(t *testing.T) {
	root := t.TempDir()
	writeCandleFile(t, root, testCandles(30, func(i int) float64 { return 100 + float64(i) }))

	series, err := LoadSeriesForRun(runConfigFor(root), root)
	require.NoError(t, err)
	assert.Equal(t, 30, series.Len())
	assert.Equal(t, 100.0, series.First().Close)
}

func TestLoadSeriesForRun_RejectsCorruptPrices(t *testing.T) {
	root := t.TempDir()
	candles := testCandles(30, func(i int) float64 { return 100 })
	candles[7].Close = -50
	candles[7].Low = -50
	writeCandleFile(t, root, candles)

	series, err := LoadSeriesForRun(runConfigFor(root), root)
	require.Error(t, err)
	assert.Nil(t, series)
	assert.Contains(t, err.Error(), "invalid data")
}

func TestLoadSeriesForRun_AppliesDateWindow(t *testing.T) {
	root := t.TempDir()
	writeCandleFile(t, root, testCandles(31, func(i int) float64 { return 100 }))

	cfg := runConfigFor(root)
	cfg.StartDate = "2023-01-10"
	cfg.EndDate = "2023-01-20"

	series, err := LoadSeriesForRun(cfg, root)
	require.NoError(t, err)
	assert.Equal(t, 11, series.Len())
	assert.Equal(t, "2023-01-10", series.First().Timestamp.Format("2006-01-02"))
	assert.Equal(t, "2023-01-20", series.Last().Timestamp.Format("2006-01-02"))
}

func TestLoadSeriesForRun_MissingFile(t *testing.T) {
	root := t.TempDir()

	series, err := LoadSeriesForRun(runConfigFor(root), root)
	require.Error(t, err)
	assert.Nil(t, series)
}
