package indicators

import (
	"errors"
	"math"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// SMA represents the Simple Moving Average technical indicator
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator
func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
	}
}

// Calculate calculates the SMA over the trailing window of data
func (s *SMA) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < s.period {
		return 0, errors.New("insufficient data for SMA calculation")
	}

	sum := 0.0
	for i := len(data) - s.period; i < len(data); i++ {
		sum += data[i].Close
	}

	return sum / float64(s.period), nil
}

// Series computes the SMA at every index, aligned with the input.
// Indexes inside the warmup window hold NaN.
func (s *SMA) Series(data []types.OHLCV) []float64 {
	out := make([]float64, len(data))
	sum := 0.0
	for i, candle := range data {
		sum += candle.Close
		if i >= s.period {
			sum -= data[i-s.period].Close
		}
		if i >= s.period-1 {
			out[i] = sum / float64(s.period)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// GetName returns the indicator name
func (s *SMA) GetName() string {
	return "SMA"
}

// GetRequiredPeriods returns the minimum number of periods needed
func (s *SMA) GetRequiredPeriods() int {
	return s.period
}
