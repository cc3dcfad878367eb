package types

import "time"

type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// DailyReturn is the single-day close-over-close return ending at this candle.
func (c OHLCV) DailyReturnFrom(prev OHLCV) float64 {
	if prev.Close == 0 {
		return 0
	}
	return c.Close/prev.Close - 1
}

// DataSummary describes a loaded candle table.
type DataSummary struct {
	TotalRecords int
	StartDate    time.Time
	EndDate      time.Time
	MinPrice     float64
	MaxPrice     float64
	LastClose    float64
	TotalVolume  float64
}

func Summarize(data []OHLCV) DataSummary {
	if len(data) == 0 {
		return DataSummary{}
	}

	s := DataSummary{
		TotalRecords: len(data),
		StartDate:    data[0].Timestamp,
		EndDate:      data[len(data)-1].Timestamp,
		MinPrice:     data[0].Low,
		MaxPrice:     data[0].High,
		LastClose:    data[len(data)-1].Close,
	}

	for _, candle := range data {
		if candle.Low < s.MinPrice {
			s.MinPrice = candle.Low
		}
		if candle.High > s.MaxPrice {
			s.MaxPrice = candle.High
		}
		s.TotalVolume += candle.Volume
	}

	return s
}
