package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"moneyflow/internal/core"
)

const (
	summarySheet      = "Summary"
	transactionsSheet = "Transactions"
)

// XLSX writes the ledger as a workbook with a summary sheet and a
// transactions sheet. Amounts are numeric cells; income is positive and
// expenses negative.
func XLSX(w io.Writer, l Ledger) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	rows := [][]any{
		{ledgerTitle},
		{"Month", l.Period()},
		{"Generated", l.GeneratedAt.Format("2006-01-02 15:04")},
		{},
		{"Total Income", l.TotalIncome()},
		{"Total Expenses", l.TotalExpense()},
		{"Net Balance", l.NetBalance()},
	}
	if len(l.Wallets) > 0 {
		rows = append(rows, []any{}, []any{"Wallet", "Currency", "Income", "Expense", "Net"})
		for _, wt := range l.Wallets {
			rows = append(rows, []any{
				wt.Name,
				string(wt.Currency),
				wt.Income.InexactFloat64(),
				wt.Expense.InexactFloat64(),
				wt.Net().InexactFloat64(),
			})
		}
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}

	txRows := [][]any{{"Date", "Type", "Category", "Description", "Wallet", "Currency", "Amount"}}
	for _, r := range l.Rows {
		amount := r.Amount
		if r.Type == core.Expense {
			amount = amount.Neg()
		}
		txRows = append(txRows, []any{
			r.Date.String(),
			r.Type.Title(),
			r.Category,
			r.Description,
			r.WalletName,
			string(r.Currency),
			amount.InexactFloat64(),
		})
	}
	if err := writeRows(f, transactionsSheet, txRows); err != nil {
		return err
	}

	f.SetColWidth(summarySheet, "A", "A", 18)
	f.SetColWidth(summarySheet, "B", "E", 24)
	f.SetColWidth(transactionsSheet, "A", "B", 12)
	f.SetColWidth(transactionsSheet, "C", "C", 16)
	f.SetColWidth(transactionsSheet, "D", "D", 32)
	f.SetColWidth(transactionsSheet, "E", "G", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
