package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// candlesWithCloses builds daily candles carrying the given close prices.
func candlesWithCloses(closes []float64) []types.OHLCV {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	data := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		data[i] = types.OHLCV{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
		}
	}
	return data
}

func TestSMA_Calculate_InsufficientData(t *testing.T) {
	sma := NewSMA(20)
	data := candlesWithCloses([]float64{100, 101, 102})

	_, err := sma.Calculate(data)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient data")
}

func TestSMA_Calculate(t *testing.T) {
	sma := NewSMA(3)
	data := candlesWithCloses([]float64{100, 102, 104, 106})

	value, err := sma.Calculate(data)
	require.NoError(t, err)

	// Trailing window is 102, 104, 106
	assert.InDelta(t, 104.0, value, 1e-9)
}

func TestSMA_Series(t *testing.T) {
	sma := NewSMA(3)
	data := candlesWithCloses([]float64{100, 102, 104, 106, 108})

	series := sma.Series(data)

	require.Len(t, series, 5)
	assert.True(t, math.IsNaN(series[0]))
	assert.True(t, math.IsNaN(series[1]))
	assert.InDelta(t, 102.0, series[2], 1e-9)
	assert.InDelta(t, 104.0, series[3], 1e-9)
	assert.InDelta(t, 106.0, series[4], 1e-9)
}

func TestEMA_Series_SeedsWithSMA(t *testing.T) {
	ema := NewEMA(3)
	data := candlesWithCloses([]float64{100, 102, 104, 110})

	series := ema.Series(data)

	require.Len(t, series, 4)
	assert.True(t, math.IsNaN(series[0]))
	assert.True(t, math.IsNaN(series[1]))
	// Seed is SMA of first 3 closes
	assert.InDelta(t, 102.0, series[2], 1e-9)
	// alpha = 2/(3+1) = 0.5, EMA = 110*0.5 + 102*0.5
	assert.InDelta(t, 106.0, series[3], 1e-9)
}

func TestEMA_Calculate_InsufficientData(t *testing.T) {
	ema := NewEMA(10)
	data := candlesWithCloses([]float64{100, 101})

	_, err := ema.Calculate(data)
	assert.Error(t, err)
}

func TestRSI_AllGains(t *testing.T) {
	rsi := NewRSI(14)
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	value, err := rsi.Calculate(candlesWithCloses(closes))
	require.NoError(t, err)

	// No losses means RSI pegs at 100
	assert.Equal(t, 100.0, value)
}

func TestRSI_AllLosses(t *testing.T) {
	rsi := NewRSI(14)
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}

	value, err := rsi.Calculate(candlesWithCloses(closes))
	require.NoError(t, err)

	assert.InDelta(t, 0.0, value, 1e-9)
	assert.True(t, rsi.Oversold(value))
}

func TestRSI_Series_WarmupIsNaN(t *testing.T) {
	rsi := NewRSI(5)
	closes := []float64{100, 101, 99, 102, 103, 101, 104, 105}

	series := rsi.Series(candlesWithCloses(closes))

	require.Len(t, series, len(closes))
	for i := 0; i < 5; i++ {
		assert.True(t, math.IsNaN(series[i]), "index %d should be warmup", i)
	}
	for i := 5; i < len(closes); i++ {
		assert.False(t, math.IsNaN(series[i]), "index %d should have a value", i)
		assert.GreaterOrEqual(t, series[i], 0.0)
		assert.LessOrEqual(t, series[i], 100.0)
	}
}

func TestDailyReturns(t *testing.T) {
	data := candlesWithCloses([]float64{100, 110, 99})

	returns := DailyReturns(data)

	require.Len(t, returns, 3)
	assert.Equal(t, 0.0, returns[0])
	assert.InDelta(t, 0.10, returns[1], 1e-9)
	assert.InDelta(t, -0.10, returns[2], 1e-9)
}

func TestMaxDrawdown(t *testing.T) {
	data := candlesWithCloses([]float64{100, 120, 90, 110, 80})

	// Peak 120, trough 80
	assert.InDelta(t, 1.0/3.0, MaxDrawdown(data), 1e-9)
}

func TestMaxDrawdown_MonotonicRise(t *testing.T) {
	data := candlesWithCloses([]float64{100, 110, 120})

	assert.Equal(t, 0.0, MaxDrawdown(data))
}
