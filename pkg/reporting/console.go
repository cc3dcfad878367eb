package reporting

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pongsakorn-w/crypto-dca-lab/internal/backtest"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/config"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

func newResultTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 24, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, Align: text.AlignRight},
	})
	return t
}

func fmtDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// PrintRunConfig prints the effective configuration for a run
func (r *DefaultConsoleReporter) PrintRunConfig(cfg *config.RunConfig) {
	t := newResultTable("RUN CONFIGURATION")

	rows := []table.Row{
		{"📊 Symbol", cfg.Symbol},
		{"⏱ Interval", cfg.Interval},
		{"🏦 Exchange", cfg.Exchange},
	}
	if cfg.StartDate != "" || cfg.EndDate != "" {
		window := cfg.StartDate
		if window == "" {
			window = "..."
		}
		if cfg.EndDate != "" {
			window += " → " + cfg.EndDate
		} else {
			window += " → now"
		}
		rows = append(rows, table.Row{"📅 Window", window})
	}
	t.AppendRows(rows)

	t.Render()
	fmt.Println()
}

// PrintDCAResult prints a monthly DCA run summary
func (r *DefaultConsoleReporter) PrintDCAResult(res *backtest.DCAResult) {
	t := newResultTable(fmt.Sprintf("SIMPLE DCA - %s", res.Symbol))

	t.AppendRows([]table.Row{
		{"📅 Period", fmt.Sprintf("%s → %s", fmtDate(res.StartDate), fmtDate(res.EndDate))},
		{"🗓 Purchase day", fmt.Sprintf("day %d of each month", res.Config.DayOfMonth)},
		{"🔄 Purchases", res.NumPurchases},
		{"💰 Total Invested", fmt.Sprintf("$%.2f", res.TotalInvested)},
		{"🪙 Total Units", fmt.Sprintf("%.8f", res.TotalUnits)},
		{"📊 Average Cost", fmt.Sprintf("$%.2f", res.AvgCost)},
		{"💵 Final Price", fmt.Sprintf("$%.2f", res.FinalPrice)},
		{"💎 Portfolio Value", fmt.Sprintf("$%.2f", res.TotalValue)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"🎯 Profit/Loss", fmt.Sprintf("%+.2f", res.ProfitLoss)},
		{"📈 Return", fmt.Sprintf("%+.2f%%", res.ReturnPct)},
		{"📈 Buy & Hold Return", fmt.Sprintf("%+.2f%%", res.BuyHoldReturnPct)},
	})

	t.Render()
	fmt.Println()
}

// PrintDipBuyResult prints a dip-buy run summary
func (r *DefaultConsoleReporter) PrintDipBuyResult(res *backtest.DipBuyResult) {
	t := newResultTable(fmt.Sprintf("BUY THE DIP - %s", res.Symbol))

	t.AppendRows([]table.Row{
		{"📅 Period", fmt.Sprintf("%s → %s", fmtDate(res.StartDate), fmtDate(res.EndDate))},
		{"📉 Dip Threshold", fmt.Sprintf("%.1f%%", res.Config.DipThreshold*100)},
		{"💰 Daily Savings", fmt.Sprintf("$%.2f", res.Config.DailySavings)},
		{"📆 Days Simulated", res.TotalDays},
		{"📉 Dip Days", res.DipDays},
		{"🔄 Purchases", res.NumPurchases},
		{"⚠️ Missed Dips", res.MissedDips},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"💰 Total Saved", fmt.Sprintf("$%.2f", res.TotalSaved)},
		{"💰 Total Invested", fmt.Sprintf("$%.2f", res.TotalInvested)},
		{"💵 Cash Remaining", fmt.Sprintf("$%.2f", res.CashRemaining)},
		{"🎯 Capital Utilization", fmt.Sprintf("%.1f%%", res.Utilization()*100)},
		{"🪙 Total Units", fmt.Sprintf("%.8f", res.TotalUnits)},
		{"📊 Average Cost", fmt.Sprintf("$%.2f", res.AvgCost)},
		{"💎 Total Value", fmt.Sprintf("$%.2f", res.TotalValue)},
		{"📈 Return", fmt.Sprintf("%+.2f%%", res.ReturnPct)},
	})

	t.Render()
	fmt.Println()
}

// PrintSeasonalRanking prints the best-month table for twelve seasonal
// runs, ordered January through December with ranks attached.
func (r *DefaultConsoleReporter) PrintSeasonalRanking(results []*backtest.SeasonalResult) {
	if len(results) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("SEASONAL DCA RANKING - %s", results[0].Symbol))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Rank", "Month", "Purchases", "Invested", "Cash Left", "Avg Cost", "Total Value", "Return %"})

	for _, res := range results {
		t.AppendRow(table.Row{
			res.Rank,
			res.TargetMonth.String(),
			res.NumPurchases,
			fmt.Sprintf("%.2f", res.TotalInvested),
			fmt.Sprintf("%.2f", res.CashRemaining),
			fmt.Sprintf("%.2f", res.AvgCost),
			fmt.Sprintf("%.2f", res.TotalValue),
			fmt.Sprintf("%+.2f", res.ReturnPct),
		})
	}

	t.SortBy([]table.SortBy{{Name: "Rank", Mode: table.AscNumeric}})
	t.Render()
	fmt.Println()
}

// PrintComparison prints the scored strategy comparison matrix
func (r *DefaultConsoleReporter) PrintComparison(res *backtest.ComparisonResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("STRATEGY COMPARISON")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Dimension", "Simple DCA", "Buy the Dip", "Winner"})

	for _, dim := range res.Dimensions {
		t.AppendRow(table.Row{
			dim.Name,
			formatDimensionValue(dim.Name, dim.DCAValue),
			formatDimensionValue(dim.Name, dim.DipValue),
			dim.Winner,
		})
	}

	t.AppendSeparator()
	t.AppendRow(table.Row{"Score", res.DCAScore, res.DipScore, res.Overall})
	t.Render()

	fmt.Printf("\n🏆 Overall: %s (%d-%d)\n\n", res.Overall, res.DCAScore, res.DipScore)
}

func formatDimensionValue(name string, v float64) string {
	switch name {
	case backtest.DimTotalUnits:
		return fmt.Sprintf("%.8f", v)
	case backtest.DimAvgCost:
		return fmt.Sprintf("$%.2f", v)
	case backtest.DimReturnPct:
		return fmt.Sprintf("%+.2f%%", v)
	case backtest.DimUtilization:
		return fmt.Sprintf("%.1f%%", v*100)
	default:
		return fmt.Sprintf("%.4f", v)
	}
}
