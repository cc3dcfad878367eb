package backtest

import (
	"time"
)

// Purchase is a single buy event appended to a strategy's purchase log.
// Running totals are carried on each event so reports can plot the
// portfolio build-up without replaying the simulation.
type Purchase struct {
	Date          time.Time
	Price         float64
	CashSpent     float64
	UnitsAcquired float64
	TotalInvested float64
	TotalUnits    float64
	AvgCost       float64
}

// Summary holds the figures every strategy reports after a run.
type Summary struct {
	Strategy      string
	Symbol        string
	StartDate     time.Time
	EndDate       time.Time
	TotalInvested float64 // cash actually converted into the asset
	TotalSaved    float64 // cash contributed over the run (return denominator)
	TotalUnits    float64
	AvgCost       float64
	FinalPrice    float64
	HoldingsValue float64
	CashRemaining float64
	TotalValue    float64 // holdings plus residual cash
	ProfitLoss    float64
	ReturnPct     float64
	NumPurchases  int
	FirstPurchase time.Time
	LastPurchase  time.Time
	Purchases     []Purchase
}

// finalize fills the derived Summary fields from the accumulated state.
func (s *Summary) finalize() {
	s.HoldingsValue = s.TotalUnits * s.FinalPrice
	s.TotalValue = s.HoldingsValue + s.CashRemaining
	if s.TotalUnits > 0 {
		s.AvgCost = s.TotalInvested / s.TotalUnits
	}
	s.ProfitLoss = s.TotalValue - s.TotalSaved
	if s.TotalSaved > 0 {
		s.ReturnPct = s.ProfitLoss / s.TotalSaved * 100
	}
	s.NumPurchases = len(s.Purchases)
	if s.NumPurchases > 0 {
		s.FirstPurchase = s.Purchases[0].Date
		s.LastPurchase = s.Purchases[s.NumPurchases-1].Date
	}
}

// Utilization returns the fraction of contributed cash that was
// actually deployed by the end of the run.
func (s *Summary) Utilization() float64 {
	if s.TotalSaved <= 0 {
		return 0
	}
	return s.TotalInvested / s.TotalSaved
}
