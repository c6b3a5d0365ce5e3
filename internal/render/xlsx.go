package render

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/money"
)

const (
	summarySheet      = "Summary"
	categoriesSheet   = "Categories"
	transactionsSheet = "Transactions"
	headerColor       = "#38BDF8"
)

// XLSX writes the report as a workbook with Summary, Categories and
// Transactions sheets. Amounts are spend in major units: outflows positive.
func XLSX(w io.Writer, data *dto.ReportData, cur money.Currency) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	for _, name := range []string{categoriesSheet, transactionsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#0F172A"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	if err := writeSummary(f, data, cur, headerStyle); err != nil {
		return err
	}
	if err := writeCategories(f, data, headerStyle, amountStyle); err != nil {
		return err
	}
	if err := writeTransactions(f, data, headerStyle, amountStyle); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSummary(f *excelize.File, data *dto.ReportData, cur money.Currency, headerStyle int) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"Start date", data.StartDate},
		{"End date", data.EndDate},
		{"Currency", cur.Code},
		{"Total spent", data.TotalSpent},
		{"Total income", data.TotalIncome},
		{"Total expense", data.TotalExpense},
		{"Historical monthly average", data.HistoricalMonthlyAverage},
	}
	if cf := data.CashFlowStats; cf != nil {
		rows = append(rows, []any{"Net", cf.Net}, []any{"Savings rate (%)", cf.SavingsRate})
	}
	if ins := data.Insights; ins != nil && ins.Summary != "" {
		rows = append(rows, []any{"Summary", ins.Summary})
	}

	if err := setRows(f, summarySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "B", 28)
}

func writeCategories(f *excelize.File, data *dto.ReportData, headerStyle, amountStyle int) error {
	rows := [][]any{{"Category", "Amount", "Share (%)", "Transactions"}}
	for _, c := range data.Categories {
		share := 0.0
		if data.TotalSpent > 0 {
			share = c.TotalAmount / data.TotalSpent * 100
		}
		rows = append(rows, []any{c.CategoryName, c.TotalAmount, share, len(c.Transactions)})
	}

	if err := setRows(f, categoriesSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(categoriesSheet, "A1", "D1", headerStyle); err != nil {
		return err
	}
	if len(rows) > 1 {
		last, err := excelize.CoordinatesToCellName(3, len(rows))
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(categoriesSheet, "B2", last, amountStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(categoriesSheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(categoriesSheet, "B", "D", 14)
}

func writeTransactions(f *excelize.File, data *dto.ReportData, headerStyle, amountStyle int) error {
	rows := [][]any{{"Date", "Category", "Payee", "Memo", "Amount"}}
	for _, c := range data.Categories {
		for _, tx := range c.Transactions {
			date := ""
			if tx.Date.IsValid() {
				date = tx.Date.String()
			}
			payee := tx.PayeeName
			if payee == "" {
				payee = unknownPayee
			}
			rows = append(rows, []any{date, c.CategoryName, payee, tx.Memo, tx.Amount.Spend().InexactFloat64()})
		}
	}

	if err := setRows(f, transactionsSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(transactionsSheet, "A1", "E1", headerStyle); err != nil {
		return err
	}
	if len(rows) > 1 {
		if err := f.SetCellStyle(transactionsSheet, "E2", "E"+strconv.Itoa(len(rows)), amountStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(transactionsSheet, "A", "A", 12); err != nil {
		return err
	}
	return f.SetColWidth(transactionsSheet, "B", "D", 24)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
