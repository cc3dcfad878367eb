package main

import (
	"flag"

	"github.com/pongsakorn-w/crypto-dca-lab/cmd/common"
)

type seasonalFlags struct {
	common *common.CommonFlags

	symbol    *string
	interval  *string
	exchange  *string
	startDate *string
	endDate   *string

	amount *float64
	month  *int

	output      *string
	consoleOnly *bool
}

func registerFlags() *seasonalFlags {
	return &seasonalFlags{
		common: common.RegisterCommonFlags(),

		symbol:    flag.String("symbol", "", "Trading symbol (e.g. BTCUSDT)"),
		interval:  flag.String("interval", "", "Candle interval the data was fetched at"),
		exchange:  flag.String("exchange", "", "Exchange the data was fetched from"),
		startDate: flag.String("start", "", "Simulation window start (YYYY-MM-DD)"),
		endDate:   flag.String("end", "", "Simulation window end (YYYY-MM-DD)"),

		amount: flag.Float64("amount", 0, "Monthly accrual amount"),
		month:  flag.Int("month", 0, "Single target month to simulate (1-12, 0 = rank all twelve)"),

		output:      flag.String("output", "", "Output directory (default results/<SYMBOL>_<interval>)"),
		consoleOnly: flag.Bool("console-only", false, "Console output only (no file output)"),
	}
}
