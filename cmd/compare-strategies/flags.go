package main

import (
	"flag"

	"github.com/pongsakorn-w/crypto-dca-lab/cmd/common"
)

type compareFlags struct {
	common *common.CommonFlags

	symbol    *string
	interval  *string
	exchange  *string
	startDate *string
	endDate   *string

	amount       *float64
	dayOfMonth   *int
	dipThreshold *float64

	output      *string
	consoleOnly *bool
}

func registerFlags() *compareFlags {
	return &compareFlags{
		common: common.RegisterCommonFlags(),

		symbol:    flag.String("symbol", "", "Trading symbol (e.g. BTCUSDT)"),
		interval:  flag.String("interval", "", "Candle interval the data was fetched at"),
		exchange:  flag.String("exchange", "", "Exchange the data was fetched from"),
		startDate: flag.String("start", "", "Simulation window start (YYYY-MM-DD)"),
		endDate:   flag.String("end", "", "Simulation window end (YYYY-MM-DD)"),

		amount:       flag.Float64("amount", 0, "Monthly budget given to both strategies"),
		dayOfMonth:   flag.Int("day", 0, "Day of month the DCA side buys on (1-31)"),
		dipThreshold: flag.Float64("threshold", 0, "Dip threshold for the dip side (e.g. -0.05)"),

		output:      flag.String("output", "", "Output directory (default results/<SYMBOL>_<interval>)"),
		consoleOnly: flag.Bool("console-only", false, "Console output only (no file output)"),
	}
}
