package data

import (
	"fmt"
	"sort"
	"time"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// YearMonth identifies a calendar month within a Series.
type YearMonth struct {
	Year  int
	Month time.Month
}

// String returns a YYYY-MM representation.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Next returns the following calendar month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Series is an immutable, chronologically ordered candle table with
// timestamp lookups. Simulators index into it instead of re-scanning the
// raw slice for every purchase date.
type Series struct {
	candles []types.OHLCV
}

// NewSeries builds a Series from candles. The input must be in strictly
// ascending timestamp order; violations are returned as errors rather
// than silently re-sorted, since out-of-order data usually means a
// corrupted download.
func NewSeries(candles []types.OHLCV) (*Series, error) {
	if len(candles) == 0 {
		return nil, fmt.Errorf("cannot build series from empty data")
	}

	for i := 1; i < len(candles); i++ {
		if !candles[i].Timestamp.After(candles[i-1].Timestamp) {
			return nil, fmt.Errorf("candles not strictly ascending at index %d (%s then %s)",
				i, candles[i-1].Timestamp.Format(time.RFC3339), candles[i].Timestamp.Format(time.RFC3339))
		}
	}

	owned := make([]types.OHLCV, len(candles))
	copy(owned, candles)

	return &Series{candles: owned}, nil
}

// Len returns the number of candles in the series.
func (s *Series) Len() int {
	return len(s.candles)
}

// At returns the candle at index i.
func (s *Series) At(i int) types.OHLCV {
	return s.candles[i]
}

// First returns the earliest candle.
func (s *Series) First() types.OHLCV {
	return s.candles[0]
}

// Last returns the latest candle.
func (s *Series) Last() types.OHLCV {
	return s.candles[len(s.candles)-1]
}

// Close returns the close price at index i.
func (s *Series) Close(i int) float64 {
	return s.candles[i].Close
}

// Candles returns a copy of the underlying candle slice.
func (s *Series) Candles() []types.OHLCV {
	out := make([]types.OHLCV, len(s.candles))
	copy(out, s.candles)
	return out
}

// IndexAtOrAfter returns the index of the first candle whose timestamp
// is at or after t, or -1 when every candle precedes t. This is the
// next-trading-day fallback: asking for a date the market has no candle
// on lands on the next available one.
func (s *Series) IndexAtOrAfter(t time.Time) int {
	idx := sort.Search(len(s.candles), func(i int) bool {
		return !s.candles[i].Timestamp.Before(t)
	})
	if idx == len(s.candles) {
		return -1
	}
	return idx
}

// DailyReturn returns the close-over-previous-close return at index i.
// Index 0 has no prior close and returns 0.
func (s *Series) DailyReturn(i int) float64 {
	if i <= 0 {
		return 0
	}
	return s.candles[i].DailyReturnFrom(s.candles[i-1])
}

// Months returns every calendar month the series touches, in order,
// including months that happen to have no candles. Callers decide what
// a gap month means: the simulators schedule no purchase in one.
func (s *Series) Months() []YearMonth {
	first := s.First().Timestamp
	last := s.Last().Timestamp

	var months []YearMonth
	ym := YearMonth{Year: first.Year(), Month: first.Month()}
	end := YearMonth{Year: last.Year(), Month: last.Month()}
	for {
		months = append(months, ym)
		if ym == end {
			break
		}
		ym = ym.Next()
	}
	return months
}

// FirstIndexOfMonth returns the index of the first candle in the given
// calendar month, or -1 when the month has no candles.
func (s *Series) FirstIndexOfMonth(ym YearMonth) int {
	start := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
	idx := s.IndexAtOrAfter(start)
	if idx < 0 {
		return -1
	}
	c := s.candles[idx]
	if c.Timestamp.Year() != ym.Year || c.Timestamp.Month() != ym.Month {
		return -1
	}
	return idx
}

// LastIndexOfMonth returns the index of the last candle in the given
// calendar month, or -1 when the month has no candles.
func (s *Series) LastIndexOfMonth(ym YearMonth) int {
	next := ym.Next()
	boundary := time.Date(next.Year, next.Month, 1, 0, 0, 0, 0, time.UTC)
	idx := s.IndexAtOrAfter(boundary)
	if idx < 0 {
		idx = len(s.candles)
	}
	idx--
	if idx < 0 {
		return -1
	}
	c := s.candles[idx]
	if c.Timestamp.Year() != ym.Year || c.Timestamp.Month() != ym.Month {
		return -1
	}
	return idx
}

// MonthlyPurchaseIndex resolves the purchase index for a month given a
// preferred day-of-month: the first trading day at or after that day,
// or the month's last trading day when the month ends sooner. The
// result always stays inside the month; -1 means the month has no
// candles at all.
func (s *Series) MonthlyPurchaseIndex(ym YearMonth, dayOfMonth int) int {
	target := time.Date(ym.Year, ym.Month, clampDay(ym.Year, ym.Month, dayOfMonth), 0, 0, 0, 0, time.UTC)
	idx := s.IndexAtOrAfter(target)
	if idx >= 0 {
		c := s.candles[idx]
		if c.Timestamp.Year() == ym.Year && c.Timestamp.Month() == ym.Month {
			return idx
		}
	}
	return s.LastIndexOfMonth(ym)
}

// clampDay pins dayOfMonth to the month's actual length, so day 31
// schedules on Feb 28/29 rather than spilling into March by date math.
func clampDay(year int, month time.Month, day int) int {
	if day < 1 {
		return 1
	}
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		return lastDay
	}
	return day
}
