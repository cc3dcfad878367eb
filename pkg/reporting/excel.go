package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/pongsakorn-w/crypto-dca-lab/internal/backtest"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteBacktestXLSX writes a strategy run to a two-sheet workbook: a
// Summary sheet with the headline figures and a Purchases sheet with
// the full purchase log.
func (r *DefaultExcelReporter) WriteBacktestXLSX(summary *backtest.Summary, path string) error {
	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Summary"
	const purchasesSheet = "Purchases"

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	fx.NewSheet(purchasesSheet)

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summarySheet, summary, styles); err != nil {
		return err
	}

	if err := r.writePurchasesSheet(fx, purchasesSheet, summary.Purchases, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

// createExcelStyles creates the workbook styles
func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	// Header style - Dark blue background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"}, // Dark slate gray
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Currency style (right aligned, $ format)
	styles.CurrencyStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7, // Currency format with $ symbol
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Percentage style (right aligned, % format)
	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 9, // Percentage format with % symbol
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Base style for regular cells
	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, summary *backtest.Summary, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 24)
	fx.SetColWidth(sheet, "B", "B", 20)

	rows := []struct {
		label string
		value interface{}
		style int
	}{
		{"Strategy", summary.Strategy, styles.BaseStyle},
		{"Symbol", summary.Symbol, styles.BaseStyle},
		{"Start Date", summary.StartDate.Format("2006-01-02"), styles.BaseStyle},
		{"End Date", summary.EndDate.Format("2006-01-02"), styles.BaseStyle},
		{"Total Saved", summary.TotalSaved, styles.CurrencyStyle},
		{"Total Invested", summary.TotalInvested, styles.CurrencyStyle},
		{"Cash Remaining", summary.CashRemaining, styles.CurrencyStyle},
		{"Total Units", summary.TotalUnits, styles.BaseStyle},
		{"Average Cost", summary.AvgCost, styles.CurrencyStyle},
		{"Final Price", summary.FinalPrice, styles.CurrencyStyle},
		{"Holdings Value", summary.HoldingsValue, styles.CurrencyStyle},
		{"Total Value", summary.TotalValue, styles.CurrencyStyle},
		{"Profit/Loss", summary.ProfitLoss, styles.CurrencyStyle},
		{"Return", summary.ReturnPct / 100, styles.PercentStyle},
		{"Purchases", summary.NumPurchases, styles.BaseStyle},
	}

	for i, row := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		fx.SetCellValue(sheet, labelCell, row.label)
		fx.SetCellValue(sheet, valueCell, row.value)
		fx.SetCellStyle(sheet, labelCell, labelCell, styles.HeaderStyle)
		fx.SetCellStyle(sheet, valueCell, valueCell, row.style)
	}

	return nil
}

func (r *DefaultExcelReporter) writePurchasesSheet(fx *excelize.File, sheet string, purchases []backtest.Purchase, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 14) // Date
	fx.SetColWidth(sheet, "B", "D", 14) // Price, Cash Spent, Units
	fx.SetColWidth(sheet, "E", "G", 16) // Running totals

	headers := []string{"Date", "Price", "Cash Spent", "Units Acquired", "Total Invested", "Total Units", "Avg Cost"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}

	for i, p := range purchases {
		row := i + 2
		values := []interface{}{
			p.Date.Format("2006-01-02"),
			p.Price,
			p.CashSpent,
			p.UnitsAcquired,
			p.TotalInvested,
			p.TotalUnits,
			p.AvgCost,
		}
		cellStyles := []int{
			styles.BaseStyle,
			styles.CurrencyStyle,
			styles.CurrencyStyle,
			styles.BaseStyle,
			styles.CurrencyStyle,
			styles.BaseStyle,
			styles.CurrencyStyle,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			fx.SetCellValue(sheet, cell, v)
			fx.SetCellStyle(sheet, cell, cell, cellStyles[col])
		}
	}

	return nil
}
