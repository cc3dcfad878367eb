package backtest

import (
	"fmt"
	"math"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/data"
)

// Dimension names used in comparison output.
const (
	DimTotalUnits  = "Total Units Acquired"
	DimAvgCost     = "Average Cost Basis"
	DimReturnPct   = "Total Return %"
	DimUtilization = "Capital Utilization"
)

// ComparisonDimension is one scored row of the side-by-side table.
type ComparisonDimension struct {
	Name     string
	DCAValue float64
	DipValue float64
	// Winner is "Simple DCA", "Buy the Dip", or "Tie"
	Winner string
	Delta  float64
}

// ComparisonResult is the scored head-to-head summary of the two
// strategies over one historical path. One deterministic run, no
// significance testing.
type ComparisonResult struct {
	DCA        *DCAResult
	Dip        *DipBuyResult
	Dimensions []ComparisonDimension
	DCAScore   int
	DipScore   int
	// Overall is "Simple DCA", "Buy the Dip", or "Tie"
	Overall string
}

// ComparatorConfig configures the head-to-head run. Both strategies
// receive the same monthly budget; the dip side saves it as
// MonthlyAmount/30 per day.
type ComparatorConfig struct {
	Symbol        string
	MonthlyAmount float64
	DayOfMonth    int
	DipThreshold  float64
}

// Comparator runs DCA and dip-buy over the same series and scores them
// dimension by dimension, one point per dimension, ties scoring none.
type Comparator struct {
	config ComparatorConfig
}

// NewComparator creates a comparator from config.
func NewComparator(config ComparatorConfig) *Comparator {
	return &Comparator{config: config}
}

// Run executes both strategies and builds the scored comparison.
func (c *Comparator) Run(series *data.Series) (*ComparisonResult, error) {
	dcaSim := NewDCASimulator(DCAConfig{
		Symbol:        c.config.Symbol,
		MonthlyAmount: c.config.MonthlyAmount,
		DayOfMonth:    c.config.DayOfMonth,
	})
	dcaRes, err := dcaSim.Run(series)
	if err != nil {
		return nil, fmt.Errorf("DCA run failed: %w", err)
	}

	dipSim := NewDipBuySimulator(DipBuyConfig{
		Symbol:       c.config.Symbol,
		DailySavings: c.config.MonthlyAmount / 30,
		DipThreshold: c.config.DipThreshold,
	})
	dipRes, err := dipSim.Run(series)
	if err != nil {
		return nil, fmt.Errorf("dip-buy run failed: %w", err)
	}

	return Compare(dcaRes, dipRes), nil
}

// Compare scores two completed runs. Higher wins everywhere except
// average cost basis, where lower wins; a side with no units has no
// meaningful cost basis and cannot win that dimension.
func Compare(dcaRes *DCAResult, dipRes *DipBuyResult) *ComparisonResult {
	result := &ComparisonResult{
		DCA: dcaRes,
		Dip: dipRes,
	}

	dcaAvg := avgCostOrInf(dcaRes.TotalUnits, dcaRes.AvgCost)
	dipAvg := avgCostOrInf(dipRes.TotalUnits, dipRes.AvgCost)

	result.addDimension(DimTotalUnits, dcaRes.TotalUnits, dipRes.TotalUnits, higherWins)
	result.addDimension(DimAvgCost, dcaAvg, dipAvg, lowerWins)
	result.addDimension(DimReturnPct, dcaRes.ReturnPct, dipRes.ReturnPct, higherWins)
	result.addDimension(DimUtilization, dcaRes.Utilization(), dipRes.Utilization(), higherWins)

	switch {
	case result.DCAScore > result.DipScore:
		result.Overall = "Simple DCA"
	case result.DipScore > result.DCAScore:
		result.Overall = "Buy the Dip"
	default:
		result.Overall = "Tie"
	}

	return result
}

type winRule int

const (
	higherWins winRule = iota
	lowerWins
)

func (r *ComparisonResult) addDimension(name string, dcaVal, dipVal float64, rule winRule) {
	dim := ComparisonDimension{
		Name:     name,
		DCAValue: dcaVal,
		DipValue: dipVal,
		Delta:    dcaVal - dipVal,
	}

	dcaBetter := dcaVal > dipVal
	if rule == lowerWins {
		dcaBetter = dcaVal < dipVal
	}

	switch {
	case dcaVal == dipVal:
		dim.Winner = "Tie"
	case dcaBetter:
		dim.Winner = "Simple DCA"
		r.DCAScore++
	default:
		dim.Winner = "Buy the Dip"
		r.DipScore++
	}

	r.Dimensions = append(r.Dimensions, dim)
}

func avgCostOrInf(units, avgCost float64) float64 {
	if units <= 0 {
		return math.Inf(1)
	}
	return avgCost
}
