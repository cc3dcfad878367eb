package indicators

import (
	"errors"
	"math"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// EMA represents the Exponential Moving Average technical indicator
type EMA struct {
	period int
	alpha  float64
}

// NewEMA creates a new EMA indicator
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1), // Standard EMA alpha calculation
	}
}

// Calculate calculates the EMA over the full data slice, seeding with
// the SMA of the first period values.
func (e *EMA) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < e.period {
		return 0, errors.New("insufficient data for EMA calculation")
	}

	series := e.Series(data)
	return series[len(series)-1], nil
}

// Series computes the EMA at every index, aligned with the input.
// Indexes inside the warmup window hold NaN; the first real value is
// the SMA of the warmup window.
func (e *EMA) Series(data []types.OHLCV) []float64 {
	out := make([]float64, len(data))
	if len(data) < e.period {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	sum := 0.0
	for i := 0; i < e.period; i++ {
		sum += data[i].Close
		if i < e.period-1 {
			out[i] = math.NaN()
		}
	}
	out[e.period-1] = sum / float64(e.period)

	for i := e.period; i < len(data); i++ {
		// EMA = (Close * Alpha) + (Previous EMA * (1 - Alpha))
		out[i] = (data[i].Close * e.alpha) + (out[i-1] * (1 - e.alpha))
	}

	return out
}

// GetName returns the indicator name
func (e *EMA) GetName() string {
	return "EMA"
}

// GetRequiredPeriods returns the minimum number of periods needed
func (e *EMA) GetRequiredPeriods() int {
	return e.period
}
