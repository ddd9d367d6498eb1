package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"moneyflow/internal/core"
)

const ledgerTitle = "Money Flow Ledger"

// Ledger is the printable record of one month.
type Ledger struct {
	Year        int
	Month       time.Month
	GeneratedAt time.Time
	Summary     Summary
	Net         Totals
	Wallets     []WalletTotals
	Rows        []LedgerRow
}

// WalletTotals is the income and expense booked against one wallet.
type WalletTotals struct {
	Name     string
	Currency core.Currency
	Income   decimal.Decimal
	Expense  decimal.Decimal
}

func (w WalletTotals) Net() decimal.Decimal { return w.Income.Sub(w.Expense) }

// LedgerRow is one transaction as printed in the ledger.
type LedgerRow struct {
	Date        core.Date
	Type        core.TransactionType
	Category    string
	Description string
	WalletName  string
	Currency    core.Currency
	Amount      decimal.Decimal
}

// SignedAmount renders the amount with "+" for income and "-" for expense.
func (r LedgerRow) SignedAmount() string {
	s := r.Currency.Format(r.Amount)
	switch r.Type {
	case core.Income:
		return "+" + s
	case core.Expense:
		return "-" + s
	}
	return s
}

// BuildLedger collects the month's figures from a snapshot. Wallet totals
// list only wallets with income or expense in the month, in wallet order.
// Rows are sorted by date ascending.
func BuildLedger(snap core.Snapshot, year int, month time.Month, generatedAt time.Time) Ledger {
	txs := FilterByMonth(snap.Transactions, year, month)
	summary := SummarizeByCurrency(txs, snap.Wallets)

	l := Ledger{
		Year:        year,
		Month:       month,
		GeneratedAt: generatedAt,
		Summary:     summary,
		Net:         NetBalance(summary),
	}

	byWallet := make(map[string]*WalletTotals, len(snap.Wallets))
	totals := make([]*WalletTotals, 0, len(snap.Wallets))
	for _, w := range snap.Wallets {
		wt := &WalletTotals{Name: w.Name, Currency: w.Currency, Income: decimal.Zero, Expense: decimal.Zero}
		byWallet[w.ID] = wt
		totals = append(totals, wt)
	}
	for _, tx := range txs {
		wt, ok := byWallet[tx.WalletID]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			wt.Income = wt.Income.Add(tx.Amount)
		case core.Expense:
			wt.Expense = wt.Expense.Add(tx.Amount)
		}
	}
	for _, wt := range totals {
		if wt.Income.IsPositive() || wt.Expense.IsPositive() {
			l.Wallets = append(l.Wallets, *wt)
		}
	}

	idx := snap.WalletIndex()
	for _, tx := range SortByDateAsc(txs) {
		row := LedgerRow{
			Date:        tx.Date,
			Type:        tx.Type,
			Category:    tx.Category,
			Description: tx.Description,
			WalletName:  "-",
			Currency:    core.LKR,
			Amount:      tx.Amount,
		}
		if w, ok := idx[tx.WalletID]; ok {
			row.WalletName = w.Name
			row.Currency = w.Currency
		}
		l.Rows = append(l.Rows, row)
	}
	return l
}

// Period is the month in long form, e.g. "January 2025".
func (l Ledger) Period() string {
	return fmt.Sprintf("%s %d", l.Month, l.Year)
}

func (l Ledger) TotalIncome() string  { return FormatMultiCurrency(l.Summary.Income) }
func (l Ledger) TotalExpense() string { return FormatMultiCurrency(l.Summary.Expense) }
func (l Ledger) NetBalance() string   { return FormatNet(l.Net) }

// Filename returns the download name of a ledger export, e.g.
// "Money_Flow_Ledger_January_2025.html".
func Filename(year int, month time.Month, ext string) string {
	return fmt.Sprintf("Money_Flow_Ledger_%s_%d.%s", month, year, ext)
}
