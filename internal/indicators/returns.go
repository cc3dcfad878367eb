package indicators

import (
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// DailyReturns computes the close-over-previous-close return at every
// index, aligned with the input. Index 0 has no prior close and holds 0.
func DailyReturns(data []types.OHLCV) []float64 {
	out := make([]float64, len(data))
	for i := 1; i < len(data); i++ {
		out[i] = data[i].DailyReturnFrom(data[i-1])
	}
	return out
}

// MaxDrawdown returns the largest peak-to-trough decline of the close
// series as a fraction (0.25 means a 25% drawdown).
func MaxDrawdown(data []types.OHLCV) float64 {
	if len(data) == 0 {
		return 0
	}

	peak := data[0].Close
	maxDD := 0.0
	for _, candle := range data {
		if candle.Close > peak {
			peak = candle.Close
		}
		if peak > 0 {
			dd := (peak - candle.Close) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
