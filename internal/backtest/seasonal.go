package backtest

import (
	"fmt"
	"sort"
	"time"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/data"
)

// SeasonalConfig configures a seasonal DCA run: savings accrue every
// month, and the whole accrual is deployed once per year in the target
// month.
type SeasonalConfig struct {
	Symbol        string
	MonthlyAmount float64
	TargetMonth   time.Month
}

// SeasonalResult is the outcome of one seasonal DCA simulation.
type SeasonalResult struct {
	Summary
	Config SeasonalConfig

	TargetMonth   time.Month
	MonthsSpanned int
	// Rank among the twelve target months, 1 = best return. Zero until
	// assigned by RunAllMonths.
	Rank int
}

// SeasonalSimulator accrues a monthly contribution at each month's
// first trading day and buys with the full accrual whenever the target
// month comes around.
type SeasonalSimulator struct {
	config SeasonalConfig
}

// NewSeasonalSimulator creates a seasonal simulator from config.
func NewSeasonalSimulator(config SeasonalConfig) *SeasonalSimulator {
	return &SeasonalSimulator{config: config}
}

// Run simulates the strategy over the series.
func (s *SeasonalSimulator) Run(series *data.Series) (*SeasonalResult, error) {
	if s.config.MonthlyAmount <= 0 {
		return nil, fmt.Errorf("monthly amount must be positive, got %.2f", s.config.MonthlyAmount)
	}
	if s.config.TargetMonth < time.January || s.config.TargetMonth > time.December {
		return nil, fmt.Errorf("target month must be 1-12, got %d", s.config.TargetMonth)
	}

	result := &SeasonalResult{
		Config:      s.config,
		TargetMonth: s.config.TargetMonth,
		Summary: Summary{
			Strategy:   fmt.Sprintf("Seasonal DCA (%s)", s.config.TargetMonth.String()),
			Symbol:     s.config.Symbol,
			StartDate:  series.First().Timestamp,
			EndDate:    series.Last().Timestamp,
			FinalPrice: series.Last().Close,
		},
	}

	totalInvested := 0.0
	totalUnits := 0.0
	cash := 0.0

	for _, ym := range series.Months() {
		idx := series.FirstIndexOfMonth(ym)
		if idx < 0 {
			continue
		}
		result.MonthsSpanned++

		cash += s.config.MonthlyAmount

		if ym.Month != s.config.TargetMonth {
			continue
		}

		candle := series.At(idx)
		units := cash / candle.Close
		totalInvested += cash
		totalUnits += units

		result.Purchases = append(result.Purchases, Purchase{
			Date:          candle.Timestamp,
			Price:         candle.Close,
			CashSpent:     cash,
			UnitsAcquired: units,
			TotalInvested: totalInvested,
			TotalUnits:    totalUnits,
			AvgCost:       totalInvested / totalUnits,
		})

		cash = 0
	}

	result.TotalInvested = totalInvested
	result.TotalSaved = float64(result.MonthsSpanned) * s.config.MonthlyAmount
	result.TotalUnits = totalUnits
	result.CashRemaining = cash
	result.finalize()

	return result, nil
}

// RunAllMonths runs twelve independent seasonal simulations over the
// same series, one per target month, and ranks them by final return.
// The runs share nothing but the borrowed series.
func RunAllMonths(series *data.Series, symbol string, monthlyAmount float64) ([]*SeasonalResult, error) {
	results := make([]*SeasonalResult, 0, 12)
	for m := time.January; m <= time.December; m++ {
		sim := NewSeasonalSimulator(SeasonalConfig{
			Symbol:        symbol,
			MonthlyAmount: monthlyAmount,
			TargetMonth:   m,
		})
		res, err := sim.Run(series)
		if err != nil {
			return nil, fmt.Errorf("seasonal run for %s failed: %w", m, err)
		}
		results = append(results, res)
	}

	ranked := make([]*SeasonalResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ReturnPct > ranked[j].ReturnPct
	})
	for i, r := range ranked {
		r.Rank = i + 1
	}

	return results, nil
}
