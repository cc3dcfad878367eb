package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/data"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// seriesFromCloses builds a daily series starting at start with the
// given close prices.
func seriesFromCloses(t *testing.T, start time.Time, closes []float64) *data.Series {
	t.Helper()
	candles := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		candles[i] = types.OHLCV{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
		}
	}
	series, err := data.NewSeries(candles)
	require.NoError(t, err)
	return series
}

// linearCloses produces n closes rising linearly from lo to hi.
func linearCloses(n int, lo, hi float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return closes
}

func flatCloses(n int, price float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return closes
}

func TestDCASimulator_LinearYear(t *testing.T) {
	// 365 daily closes rising linearly from 100 to 200
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, linearCloses(365, 100, 200))

	sim := NewDCASimulator(DCAConfig{Symbol: "BTC", MonthlyAmount: 100, DayOfMonth: 1})
	result, err := sim.Run(series)
	require.NoError(t, err)

	assert.Equal(t, 12, result.NumPurchases)
	assert.Equal(t, 1200.0, result.TotalInvested)

	// units = sum(100/close_i) over the twelve purchase closes
	expectedUnits := 0.0
	for _, p := range result.Purchases {
		assert.Equal(t, p.CashSpent/p.Price, p.UnitsAcquired)
		expectedUnits += 100.0 / p.Price
	}
	assert.InDelta(t, expectedUnits, result.TotalUnits, 1e-12)

	// Each purchase lands on the 1st of its month
	for i, p := range result.Purchases {
		assert.Equal(t, 1, p.Date.Day())
		assert.Equal(t, time.Month(i+1), p.Date.Month())
	}
}

func TestDCASimulator_OnePurchasePerMonthAtMost(t *testing.T) {
	start := time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, flatCloses(200, 100))

	sim := NewDCASimulator(DCAConfig{Symbol: "BTC", MonthlyAmount: 50, DayOfMonth: 15})
	result, err := sim.Run(series)
	require.NoError(t, err)

	months := series.Months()
	assert.LessOrEqual(t, result.NumPurchases, len(months))

	seen := map[data.YearMonth]bool{}
	for _, p := range result.Purchases {
		ym := data.YearMonth{Year: p.Date.Year(), Month: p.Date.Month()}
		assert.False(t, seen[ym], "second purchase in %s", ym)
		seen[ym] = true
	}
}

func TestDCASimulator_FallsBackToNextTradingDay(t *testing.T) {
	// Remove Jan 5 so the scheduled day has no candle
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.OHLCV, 0, 30)
	for i := 0; i < 31; i++ {
		if i == 4 {
			continue
		}
		candles = append(candles, types.OHLCV{
			Timestamp: start.AddDate(0, 0, i),
			Open:      100, High: 101, Low: 99, Close: 100, Volume: 1000,
		})
	}
	series, err := data.NewSeries(candles)
	require.NoError(t, err)

	sim := NewDCASimulator(DCAConfig{Symbol: "BTC", MonthlyAmount: 100, DayOfMonth: 5})
	result, err := sim.Run(series)
	require.NoError(t, err)

	require.Equal(t, 1, result.NumPurchases)
	assert.Equal(t, 6, result.Purchases[0].Date.Day())
}

func TestDCASimulator_BuyHoldBaseline(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, linearCloses(60, 100, 150))

	sim := NewDCASimulator(DCAConfig{Symbol: "BTC", MonthlyAmount: 100, DayOfMonth: 1})
	result, err := sim.Run(series)
	require.NoError(t, err)

	firstPrice := result.Purchases[0].Price
	expected := (result.FinalPrice - firstPrice) / firstPrice * 100
	assert.InDelta(t, expected, result.BuyHoldReturnPct, 1e-12)
}

func TestDCASimulator_RejectsBadConfig(t *testing.T) {
	series := seriesFromCloses(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), flatCloses(30, 100))

	_, err := NewDCASimulator(DCAConfig{MonthlyAmount: 0, DayOfMonth: 1}).Run(series)
	assert.Error(t, err)

	_, err = NewDCASimulator(DCAConfig{MonthlyAmount: 100, DayOfMonth: 32}).Run(series)
	assert.Error(t, err)
}

func TestDipBuySimulator_FlatSeriesNeverBuys(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, flatCloses(90, 100))

	sim := NewDipBuySimulator(DipBuyConfig{Symbol: "BTC", DailySavings: 10, DipThreshold: -0.05})
	result, err := sim.Run(series)
	require.NoError(t, err)

	assert.Equal(t, 0, result.NumPurchases)
	assert.Equal(t, 0, result.DipDays)
	assert.Equal(t, 90*10.0, result.CashRemaining)
	assert.Equal(t, result.TotalSaved, result.CashRemaining)
	assert.Equal(t, 0.0, result.Utilization())
}

func TestDipBuySimulator_BuysOnDipAndResetsCash(t *testing.T) {
	// Day 5 drops 10% against day 4's close
	closes := []float64{100, 100, 100, 100, 100, 90, 90, 90}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, closes)

	sim := NewDipBuySimulator(DipBuyConfig{Symbol: "BTC", DailySavings: 10, DipThreshold: -0.05})
	result, err := sim.Run(series)
	require.NoError(t, err)

	require.Equal(t, 1, result.NumPurchases)
	assert.Equal(t, 1, result.DipDays)
	assert.Equal(t, 0, result.MissedDips)

	p := result.Purchases[0]
	// Six days of savings accrued by the dip day, all deployed
	assert.Equal(t, 60.0, p.CashSpent)
	assert.Equal(t, 90.0, p.Price)
	assert.Equal(t, p.CashSpent/p.Price, p.UnitsAcquired)

	// Cash resets after the buy, then accrues for the remaining days
	assert.Equal(t, 20.0, result.CashRemaining)
}

func TestDipBuySimulator_ConsecutiveDips(t *testing.T) {
	// Two back-to-back 10% drops: the second dip day has only that
	// day's savings to deploy
	closes := []float64{100, 90, 81, 81}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, closes)

	sim := NewDipBuySimulator(DipBuyConfig{Symbol: "BTC", DailySavings: 10, DipThreshold: -0.05})
	result, err := sim.Run(series)
	require.NoError(t, err)

	require.Equal(t, 2, result.NumPurchases)
	assert.Equal(t, 20.0, result.Purchases[0].CashSpent)
	assert.Equal(t, 10.0, result.Purchases[1].CashSpent)
	assert.Equal(t, 0, result.MissedDips)
	assert.Equal(t, 10.0, result.CashRemaining)
}

func TestDipBuySimulator_MinPurchaseSkipsThinDips(t *testing.T) {
	// Second dip day has only 10 in cash, below the 15 floor
	closes := []float64{100, 90, 81, 81}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, closes)

	sim := NewDipBuySimulator(DipBuyConfig{Symbol: "BTC", DailySavings: 10, DipThreshold: -0.05, MinPurchase: 15})
	result, err := sim.Run(series)
	require.NoError(t, err)

	require.Equal(t, 1, result.NumPurchases)
	assert.Equal(t, 2, result.DipDays)
	assert.Equal(t, 1, result.MissedDips)
	assert.Equal(t, 20.0, result.Purchases[0].CashSpent)

	// The skipped dip's cash stays banked for the next one
	assert.Equal(t, 20.0, result.CashRemaining)
}

func TestDipBuySimulator_AccountingBalances(t *testing.T) {
	closes := []float64{100, 94, 100, 105, 99, 104, 95, 95, 100, 92}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, closes)

	sim := NewDipBuySimulator(DipBuyConfig{Symbol: "BTC", DailySavings: 10, DipThreshold: -0.05})
	result, err := sim.Run(series)
	require.NoError(t, err)

	// Every contributed unit of cash is either invested or still held
	assert.InDelta(t, result.TotalSaved, result.TotalInvested+result.CashRemaining, 1e-9)
	assert.GreaterOrEqual(t, result.CashRemaining, 0.0)

	for _, p := range result.Purchases {
		assert.Equal(t, p.CashSpent/p.Price, p.UnitsAcquired)
		assert.Greater(t, p.CashSpent, 0.0)
	}
}

func TestDipBuySimulator_RejectsBadConfig(t *testing.T) {
	series := seriesFromCloses(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), flatCloses(10, 100))

	_, err := NewDipBuySimulator(DipBuyConfig{DailySavings: 0, DipThreshold: -0.05}).Run(series)
	assert.Error(t, err)

	_, err = NewDipBuySimulator(DipBuyConfig{DailySavings: 10, DipThreshold: 0.05}).Run(series)
	assert.Error(t, err)

	_, err = NewDipBuySimulator(DipBuyConfig{DailySavings: 10, DipThreshold: -0.05, MinPurchase: -1}).Run(series)
	assert.Error(t, err)
}

func TestSeasonalSimulator_AccruesUntilTargetMonth(t *testing.T) {
	// Full calendar year of daily candles
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, flatCloses(365, 100))

	sim := NewSeasonalSimulator(SeasonalConfig{Symbol: "BTC", MonthlyAmount: 100, TargetMonth: time.June})
	result, err := sim.Run(series)
	require.NoError(t, err)

	assert.Equal(t, 12, result.MonthsSpanned)
	require.Equal(t, 1, result.NumPurchases)

	p := result.Purchases[0]
	// Jan through June accruals deployed at June's first close
	assert.Equal(t, 600.0, p.CashSpent)
	assert.Equal(t, time.June, p.Date.Month())
	assert.Equal(t, 1, p.Date.Day())

	// July through December accruals remain as cash
	assert.Equal(t, 600.0, result.CashRemaining)
	assert.Equal(t, 1200.0, result.TotalSaved)
}

func TestSeasonalSimulator_JanuaryDeploysImmediately(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, flatCloses(365, 100))

	sim := NewSeasonalSimulator(SeasonalConfig{Symbol: "BTC", MonthlyAmount: 100, TargetMonth: time.January})
	result, err := sim.Run(series)
	require.NoError(t, err)

	require.Equal(t, 1, result.NumPurchases)
	assert.Equal(t, 100.0, result.Purchases[0].CashSpent)
	assert.Equal(t, 1100.0, result.CashRemaining)
}

func TestSeasonalSimulator_MultiYear(t *testing.T) {
	// Two full years: the target month triggers once per year
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, flatCloses(730, 100))

	sim := NewSeasonalSimulator(SeasonalConfig{Symbol: "BTC", MonthlyAmount: 100, TargetMonth: time.March})
	result, err := sim.Run(series)
	require.NoError(t, err)

	require.Equal(t, 2, result.NumPurchases)
	assert.Equal(t, 300.0, result.Purchases[0].CashSpent)  // Jan-Mar of year one
	assert.Equal(t, 1200.0, result.Purchases[1].CashSpent) // Apr-Mar across the year boundary
}

func TestRunAllMonths_IndependentRuns(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses(t, start, linearCloses(730, 100, 300))

	all, err := RunAllMonths(series, "BTC", 100)
	require.NoError(t, err)
	require.Len(t, all, 12)

	// Each batch entry matches a standalone single-month run exactly
	for i, batch := range all {
		m := time.Month(i + 1)
		assert.Equal(t, m, batch.TargetMonth)

		solo, err := NewSeasonalSimulator(SeasonalConfig{
			Symbol: "BTC", MonthlyAmount: 100, TargetMonth: m,
		}).Run(series)
		require.NoError(t, err)

		assert.Equal(t, solo.Purchases, batch.Purchases, "month %s", m)
		assert.Equal(t, solo.ReturnPct, batch.ReturnPct, "month %s", m)
	}

	// Ranks are a permutation of 1..12 consistent with returns
	seen := map[int]bool{}
	for _, r := range all {
		assert.False(t, seen[r.Rank])
		seen[r.Rank] = true
	}
	for _, a := range all {
		for _, b := range all {
			if a.ReturnPct > b.ReturnPct {
				assert.Less(t, a.Rank, b.Rank)
			}
		}
	}
}
