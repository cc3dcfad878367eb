package backtest

import (
	"fmt"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/data"
)

// DCAConfig configures a monthly dollar-cost-averaging run.
type DCAConfig struct {
	Symbol        string
	MonthlyAmount float64
	DayOfMonth    int
}

// DCAResult is the outcome of a monthly DCA simulation.
type DCAResult struct {
	Summary
	Config DCAConfig

	// Lump-sum baseline: everything bought at the first purchase price.
	BuyHoldReturnPct float64
}

// DCASimulator buys a fixed amount at a fixed day of every month,
// falling back to the next trading day when the scheduled day has no
// candle (or the month's last trading day when the month ends first).
type DCASimulator struct {
	config DCAConfig
}

// NewDCASimulator creates a DCA simulator from config.
func NewDCASimulator(config DCAConfig) *DCASimulator {
	return &DCASimulator{config: config}
}

// Run simulates the strategy over the series. The series is borrowed
// for the duration of the run and never mutated.
func (s *DCASimulator) Run(series *data.Series) (*DCAResult, error) {
	if s.config.MonthlyAmount <= 0 {
		return nil, fmt.Errorf("monthly amount must be positive, got %.2f", s.config.MonthlyAmount)
	}
	if s.config.DayOfMonth < 1 || s.config.DayOfMonth > 31 {
		return nil, fmt.Errorf("day of month must be 1-31, got %d", s.config.DayOfMonth)
	}

	result := &DCAResult{
		Config: s.config,
		Summary: Summary{
			Strategy:   "Simple DCA",
			Symbol:     s.config.Symbol,
			StartDate:  series.First().Timestamp,
			EndDate:    series.Last().Timestamp,
			FinalPrice: series.Last().Close,
		},
	}

	totalInvested := 0.0
	totalUnits := 0.0

	for _, ym := range series.Months() {
		idx := series.MonthlyPurchaseIndex(ym, s.config.DayOfMonth)
		if idx < 0 {
			// Data gap swallowed the whole month; nothing to buy on
			continue
		}

		candle := series.At(idx)
		units := s.config.MonthlyAmount / candle.Close
		totalInvested += s.config.MonthlyAmount
		totalUnits += units

		result.Purchases = append(result.Purchases, Purchase{
			Date:          candle.Timestamp,
			Price:         candle.Close,
			CashSpent:     s.config.MonthlyAmount,
			UnitsAcquired: units,
			TotalInvested: totalInvested,
			TotalUnits:    totalUnits,
			AvgCost:       totalInvested / totalUnits,
		})
	}

	if len(result.Purchases) == 0 {
		return nil, fmt.Errorf("no purchases possible over %s to %s",
			result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))
	}

	result.TotalInvested = totalInvested
	result.TotalSaved = totalInvested // every contribution is deployed immediately
	result.TotalUnits = totalUnits
	result.finalize()

	firstPrice := result.Purchases[0].Price
	result.BuyHoldReturnPct = (result.FinalPrice - firstPrice) / firstPrice * 100

	return result, nil
}
