package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dcaResultWith(units, avgCost, returnPct float64) *DCAResult {
	r := &DCAResult{}
	r.TotalUnits = units
	r.AvgCost = avgCost
	r.ReturnPct = returnPct
	r.TotalInvested = 1200
	r.TotalSaved = 1200
	return r
}

func dipResultWith(units, avgCost, returnPct, invested, saved float64) *DipBuyResult {
	r := &DipBuyResult{}
	r.TotalUnits = units
	r.AvgCost = avgCost
	r.ReturnPct = returnPct
	r.TotalInvested = invested
	r.TotalSaved = saved
	return r
}

func TestCompare_ScoreIsSumOfWins(t *testing.T) {
	// DCA wins units and return, dip wins avg cost and utilization
	dca := dcaResultWith(2.0, 110, 25)
	dip := dipResultWith(1.5, 100, 20, 1200, 1200)
	dca.TotalInvested = 1100 // utilization below dip's 1.0
	dca.TotalSaved = 1200

	result := Compare(dca, dip)

	assert.Equal(t, 2, result.DCAScore)
	assert.Equal(t, 2, result.DipScore)
	assert.Equal(t, "Tie", result.Overall)

	wins := 0
	for _, dim := range result.Dimensions {
		if dim.Winner != "Tie" {
			wins++
		}
	}
	assert.Equal(t, result.DCAScore+result.DipScore, wins)
}

func TestCompare_TiesAwardNoPoint(t *testing.T) {
	dca := dcaResultWith(1.0, 100, 10)
	dip := dipResultWith(1.0, 100, 10, 1200, 1200)

	result := Compare(dca, dip)

	assert.Equal(t, 0, result.DCAScore)
	assert.Equal(t, 0, result.DipScore)
	assert.Equal(t, "Tie", result.Overall)
	for _, dim := range result.Dimensions {
		assert.Equal(t, "Tie", dim.Winner, dim.Name)
	}
}

func TestCompare_LowerAvgCostWins(t *testing.T) {
	dca := dcaResultWith(1.0, 90, 10)
	dip := dipResultWith(1.0, 100, 10, 1200, 1200)

	result := Compare(dca, dip)

	for _, dim := range result.Dimensions {
		if dim.Name == DimAvgCost {
			assert.Equal(t, "Simple DCA", dim.Winner)
		}
	}
}

func TestCompare_NoUnitsCannotWinAvgCost(t *testing.T) {
	// A dip run with zero purchases reports avg cost 0, which must not
	// beat a real cost basis
	dca := dcaResultWith(1.0, 100, 10)
	dip := dipResultWith(0, 0, 0, 0, 1200)

	result := Compare(dca, dip)

	for _, dim := range result.Dimensions {
		if dim.Name == DimAvgCost {
			assert.Equal(t, "Simple DCA", dim.Winner)
		}
	}
}

func TestComparator_Run(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	closes := linearCloses(365, 100, 200)
	// Carve a few dips into the rise so both strategies trade
	closes[50] = closes[49] * 0.92
	closes[180] = closes[179] * 0.90
	series := seriesFromCloses(t, start, closes)

	comp := NewComparator(ComparatorConfig{
		Symbol:        "BTC",
		MonthlyAmount: 300,
		DayOfMonth:    1,
		DipThreshold:  -0.05,
	})
	result, err := comp.Run(series)
	require.NoError(t, err)

	assert.Equal(t, 12, result.DCA.NumPurchases)
	assert.Equal(t, 2, result.Dip.NumPurchases)
	require.Len(t, result.Dimensions, 4)
	assert.Equal(t, result.DCAScore+result.DipScore, countWins(result))

	// Both sides contributed the same monthly budget
	assert.Equal(t, 300.0/30, result.Dip.Config.DailySavings)
}

func countWins(r *ComparisonResult) int {
	wins := 0
	for _, dim := range r.Dimensions {
		if dim.Winner != "Tie" {
			wins++
		}
	}
	return wins
}
