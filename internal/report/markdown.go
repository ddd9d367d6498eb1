package report

import (
	"fmt"
	"strings"
	"time"

	"moneyflow/internal/core"
)

var typeIcons = map[core.TransactionType]string{
	core.Income:   "📈",
	core.Expense:  "📉",
	core.Transfer: "↔️",
}

// Markdown renders the ledger as a GitHub flavoured markdown document.
func Markdown(l Ledger) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 💰 %s\n\n", ledgerTitle)
	fmt.Fprintf(&b, "**%s**\n\n", l.Period())
	fmt.Fprintf(&b, "Generated on %s\n\n", l.GeneratedAt.Format("Monday, January 2, 2006"))

	fmt.Fprint(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- **Total Income:** %s\n", l.TotalIncome())
	fmt.Fprintf(&b, "- **Total Expenses:** %s\n", l.TotalExpense())
	fmt.Fprintf(&b, "- **Net Balance:** %s\n\n", l.NetBalance())

	if len(l.Wallets) > 0 {
		fmt.Fprint(&b, "## 📊 Wallet Summary\n\n")
		fmt.Fprintln(&b, "| Wallet | Currency | Income | Expense | Net |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")
		for _, w := range l.Wallets {
			fmt.Fprintf(&b, "| %s | %s | +%s | -%s | %s |\n",
				escapeCell(w.Name),
				w.Currency,
				w.Currency.Format(w.Income),
				w.Currency.Format(w.Expense),
				w.Currency.Format(w.Net()),
			)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintf(&b, "## 📋 Transaction Details (%d transactions)\n\n", len(l.Rows))
	if len(l.Rows) == 0 {
		fmt.Fprint(&b, "_No transactions for this month_\n\n")
	} else {
		fmt.Fprintln(&b, "| Date | Type | Category | Description | Wallet | Amount |")
		fmt.Fprintln(&b, "|:---|:---|:---|:---|:---|---:|")
		for _, r := range l.Rows {
			fmt.Fprintf(&b, "| %s | %s %s | %s | %s | %s | %s |\n",
				r.Date.Display(),
				typeIcons[r.Type], r.Type.Title(),
				orDash(r.Category),
				orDash(r.Description),
				escapeCell(r.WalletName),
				r.SignedAmount(),
			)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprint(&b, "---\n\nMoney Flow - Personal Finance Manager · Generated automatically\n")
	return b.String()
}

// WalletsMarkdown renders the wallet list with balances.
func WalletsMarkdown(wallets []core.Wallet) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Wallets\n\n")
	if len(wallets) == 0 {
		fmt.Fprint(&b, "_No wallets_\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| ID | Name | Currency | Balance |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|")
	for _, w := range wallets {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", w.ID, escapeCell(w.Name), w.Currency, w.Currency.Format(w.Balance))
	}
	return b.String()
}

// TransactionsMarkdown renders a transaction list, in the given order.
func TransactionsMarkdown(title string, txs []core.Transaction, wallets []core.Wallet) string {
	var b strings.Builder
	idx := walletIndex(wallets)

	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(txs) == 0 {
		fmt.Fprint(&b, "_No transactions found_\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| ID | Date | Type | Title | Category | Wallet | Amount |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|:---|:---|---:|")
	for _, tx := range txs {
		w, ok := idx[tx.WalletID]
		if !ok {
			w = core.Wallet{Name: "-", Currency: core.LKR}
		}
		walletName := escapeCell(w.Name)
		if tx.Type == core.Transfer {
			to := "-"
			if dst, ok := idx[tx.ToWalletID]; ok {
				to = escapeCell(dst.Name)
			}
			walletName += " → " + to
		}
		row := LedgerRow{Type: tx.Type, Currency: w.Currency, Amount: tx.Amount}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			tx.ID,
			tx.Date.Display(),
			tx.Type.Title(),
			escapeCell(tx.Title()),
			orDash(tx.Category),
			walletName,
			row.SignedAmount(),
		)
	}
	return b.String()
}

// SummaryMarkdown renders the monthly overview shown by the dashboard.
func SummaryMarkdown(year int, month time.Month, s Summary, categories []CategoryTotal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary for %s %d\n\n", month, year)
	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Total Income | %s |\n", escapeCell(FormatMultiCurrency(s.Income)))
	fmt.Fprintf(&b, "| Total Expenses | %s |\n", escapeCell(FormatMultiCurrency(s.Expense)))
	fmt.Fprintf(&b, "| Net Balance | %s |\n", escapeCell(FormatNet(NetBalance(s))))

	if len(categories) > 0 {
		fmt.Fprint(&b, "\n## Expenses by Category\n\n")
		fmt.Fprintln(&b, "| Category | Transactions | Amount |")
		fmt.Fprintln(&b, "|:---|---:|---:|")
		for _, c := range categories {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", escapeCell(c.Category), c.Count, c.Currency.Format(c.Amount))
		}
	}
	return b.String()
}

// LoansMarkdown renders loans with their payment progress.
func LoansMarkdown(title string, loans []core.Loan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(loans) == 0 {
		fmt.Fprint(&b, "_No loan records_\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| ID | Person | Type | Amount | Paid | Remaining | Progress | Due | Status |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|:---|:---|")
	for _, l := range loans {
		due := "-"
		if l.DueDate != nil {
			due = l.DueDate.Display()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s%% | %s | %s |\n",
			l.ID,
			escapeCell(l.PersonName),
			l.Type,
			l.Currency.Format(l.Amount),
			l.Currency.Format(l.TotalPaid()),
			l.Currency.Format(l.Remaining()),
			l.Progress().StringFixed(0),
			due,
			l.Status,
		)
	}
	return b.String()
}

// escapeCell makes user text safe inside a markdown table cell.
func escapeCell(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune("\\|*_`[]<>#~", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return escapeCell(s)
}
