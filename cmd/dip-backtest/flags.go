package main

import (
	"flag"

	"github.com/pongsakorn-w/crypto-dca-lab/cmd/common"
)

type dipFlags struct {
	common *common.CommonFlags

	symbol    *string
	interval  *string
	exchange  *string
	startDate *string
	endDate   *string

	dailySavings *float64
	dipThreshold *float64
	minPurchase  *float64

	output      *string
	consoleOnly *bool
}

func registerFlags() *dipFlags {
	return &dipFlags{
		common: common.RegisterCommonFlags(),

		symbol:    flag.String("symbol", "", "Trading symbol (e.g. BTCUSDT)"),
		interval:  flag.String("interval", "", "Candle interval the data was fetched at"),
		exchange:  flag.String("exchange", "", "Exchange the data was fetched from"),
		startDate: flag.String("start", "", "Simulation window start (YYYY-MM-DD)"),
		endDate:   flag.String("end", "", "Simulation window end (YYYY-MM-DD)"),

		dailySavings: flag.Float64("daily", 0, "Amount saved per day"),
		dipThreshold: flag.Float64("threshold", 0, "Dip threshold as a negative fraction (e.g. -0.05)"),
		minPurchase:  flag.Float64("min-purchase", 0, "Skip dips with less accrued cash than this (0 disables)"),

		output:      flag.String("output", "", "Output directory (default results/<SYMBOL>_<interval>)"),
		consoleOnly: flag.Bool("console-only", false, "Console output only (no file output)"),
	}
}
