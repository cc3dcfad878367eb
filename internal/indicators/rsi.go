package indicators

import (
	"errors"
	"math"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// RSI calculates the Relative Strength Index
type RSI struct {
	period int
}

// NewRSI creates a new RSI instance with the given period
func NewRSI(period int) *RSI {
	return &RSI{
		period: period,
	}
}

// Calculate computes the RSI value over the trailing window
func (r *RSI) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < r.period+1 {
		return 0, errors.New("insufficient data for RSI calculation")
	}

	series := r.Series(data)
	return series[len(series)-1], nil
}

// Series computes the RSI at every index using simple rolling averages
// of gains and losses. Indexes inside the warmup window hold NaN.
func (r *RSI) Series(data []types.OHLCV) []float64 {
	out := make([]float64, len(data))

	gains := make([]float64, len(data))
	losses := make([]float64, len(data))
	for i := 1; i < len(data); i++ {
		change := data[i].Close - data[i-1].Close
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = math.Abs(change)
		}
	}

	gainSum, lossSum := 0.0, 0.0
	for i := range data {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > r.period {
			gainSum -= gains[i-r.period]
			lossSum -= losses[i-r.period]
		}

		if i < r.period {
			out[i] = math.NaN()
			continue
		}

		avgGain := gainSum / float64(r.period)
		avgLoss := lossSum / float64(r.period)

		if avgLoss == 0 {
			out[i] = 100
			continue
		}

		rs := avgGain / avgLoss
		out[i] = 100 - (100 / (1 + rs))
	}

	return out
}

// Oversold returns true if the RSI indicates an oversold condition
func (r *RSI) Oversold(currentRSI float64) bool {
	return currentRSI < 30
}

// GetName returns the indicator name
func (r *RSI) GetName() string {
	return "RSI"
}

// GetRequiredPeriods returns the minimum number of periods needed
func (r *RSI) GetRequiredPeriods() int {
	return r.period + 1
}
