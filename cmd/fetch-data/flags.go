package main

import (
	"flag"
	"time"

	"github.com/pongsakorn-w/crypto-dca-lab/cmd/common"
)

type fetchFlags struct {
	common *common.CommonFlags

	symbol    *string
	interval  *string
	exchange  *string
	category  *string
	startDate *string
	endDate   *string

	pageSize  *int
	pageDelay *time.Duration

	output      *string
	indicators  *string
	metricsPort *int
}

func registerFlags() *fetchFlags {
	return &fetchFlags{
		common: common.RegisterCommonFlags(),

		symbol:    flag.String("symbol", "", "Trading symbol (e.g. BTCUSDT)"),
		interval:  flag.String("interval", "", "Candle interval (e.g. 1d, 4h)"),
		exchange:  flag.String("exchange", "", "Exchange to fetch from (binance, bybit)"),
		category:  flag.String("category", "spot", "Bybit product category (spot, linear)"),
		startDate: flag.String("start", "", "Fetch window start (YYYY-MM-DD)"),
		endDate:   flag.String("end", "", "Fetch window end (YYYY-MM-DD), defaults to now"),

		pageSize:  flag.Int("page-size", 0, "Rows per API request (max 1000)"),
		pageDelay: flag.Duration("page-delay", 0, "Pause between API requests"),

		output:      flag.String("output", "", "Output CSV path (default <data-root>/<exchange>/<symbol>/<interval>/candles.csv)"),
		indicators:  flag.String("indicators", "", "Comma-separated indicator columns to append (e.g. sma:20,ema:50,rsi:14,returns)"),
		metricsPort: flag.Int("metrics-port", 0, "Expose Prometheus metrics on this port while fetching (0 = off)"),
	}
}
