package backtest

import (
	"fmt"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/data"
)

// DipBuyConfig configures a dip-buying run. DipThreshold is a negative
// fraction: -0.05 buys on any day closing 5% or more below the previous
// close.
type DipBuyConfig struct {
	Symbol       string
	DailySavings float64
	DipThreshold float64

	// MinPurchase is an optional floor on purchase size. A dip day
	// with less accrued cash than this skips the buy and counts as a
	// missed dip. Zero disables the floor.
	MinPurchase float64
}

// DipBuyResult is the outcome of a dip-buy simulation.
type DipBuyResult struct {
	Summary
	Config DipBuyConfig

	TotalDays int
	DipDays   int
	// Dip days where no cash was available to deploy
	MissedDips int
}

// DipBuySimulator saves a fixed amount every day and goes all-in
// whenever the daily return breaches the threshold. No partial
// deployment: a qualifying dip spends the entire cash balance at that
// day's close.
type DipBuySimulator struct {
	config DipBuyConfig
}

// NewDipBuySimulator creates a dip-buy simulator from config.
func NewDipBuySimulator(config DipBuyConfig) *DipBuySimulator {
	return &DipBuySimulator{config: config}
}

// Run simulates the strategy over the series.
func (s *DipBuySimulator) Run(series *data.Series) (*DipBuyResult, error) {
	if s.config.DailySavings <= 0 {
		return nil, fmt.Errorf("daily savings must be positive, got %.2f", s.config.DailySavings)
	}
	if s.config.DipThreshold >= 0 {
		return nil, fmt.Errorf("dip threshold must be negative, got %.4f", s.config.DipThreshold)
	}
	if s.config.MinPurchase < 0 {
		return nil, fmt.Errorf("minimum purchase must not be negative, got %.2f", s.config.MinPurchase)
	}

	result := &DipBuyResult{
		Config: s.config,
		Summary: Summary{
			Strategy:   "Buy the Dip",
			Symbol:     s.config.Symbol,
			StartDate:  series.First().Timestamp,
			EndDate:    series.Last().Timestamp,
			FinalPrice: series.Last().Close,
		},
		TotalDays: series.Len(),
	}

	totalInvested := 0.0
	totalUnits := 0.0
	cash := 0.0

	for i := 0; i < series.Len(); i++ {
		// Savings accrue before the dip check, so day one of a crash
		// still has that day's contribution to deploy
		cash += s.config.DailySavings

		// Day 0 has no previous close and can never be a dip
		if i == 0 {
			continue
		}

		if series.DailyReturn(i) > s.config.DipThreshold {
			continue
		}
		result.DipDays++

		if cash <= 0 || cash < s.config.MinPurchase {
			result.MissedDips++
			continue
		}

		candle := series.At(i)
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
	result.TotalSaved = float64(series.Len()) * s.config.DailySavings
	result.TotalUnits = totalUnits
	result.CashRemaining = cash
	result.finalize()

	return result, nil
}
