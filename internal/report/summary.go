package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"moneyflow/internal/core"
)

// Totals maps a currency to an amount.
type Totals map[core.Currency]decimal.Decimal

// Summary holds income and expense totals per currency.
type Summary struct {
	Income  Totals
	Expense Totals
}

// SummarizeByCurrency totals income and expenses under the currency of each
// transaction's source wallet. Transfers are not counted and transactions
// whose wallet no longer exists are skipped.
func SummarizeByCurrency(txs []core.Transaction, wallets []core.Wallet) Summary {
	s := Summary{Income: Totals{}, Expense: Totals{}}
	for _, c := range core.Currencies() {
		s.Income[c] = decimal.Zero
		s.Expense[c] = decimal.Zero
	}

	idx := walletIndex(wallets)
	for _, tx := range txs {
		w, ok := idx[tx.WalletID]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			s.Income[w.Currency] = s.Income[w.Currency].Add(tx.Amount)
		case core.Expense:
			s.Expense[w.Currency] = s.Expense[w.Currency].Add(tx.Amount)
		}
	}
	return s
}

// NetBalance returns income minus expense per currency.
func NetBalance(s Summary) Totals {
	net := Totals{}
	for _, c := range core.Currencies() {
		net[c] = s.Income[c].Sub(s.Expense[c])
	}
	return net
}

const (
	zeroFigure = "Rs. 0.00"
	separator  = " | "
)

// FormatMultiCurrency renders the positive entries of totals in canonical
// currency order, joined with " | ". Without any positive entry it renders
// "Rs. 0.00".
func FormatMultiCurrency(totals Totals) string {
	return formatEntries(totals, func(d decimal.Decimal) bool { return d.IsPositive() })
}

// FormatNet is like FormatMultiCurrency but keeps every non-zero entry,
// negatives included.
func FormatNet(net Totals) string {
	return formatEntries(net, func(d decimal.Decimal) bool { return !d.IsZero() })
}

func formatEntries(totals Totals, keep func(decimal.Decimal) bool) string {
	var parts []string
	for _, c := range core.Currencies() {
		if v, ok := totals[c]; ok && keep(v) {
			parts = append(parts, c.Format(v))
		}
	}
	if len(parts) == 0 {
		return zeroFigure
	}
	return strings.Join(parts, separator)
}

// LoansByType returns the loans of the given type in input order.
func LoansByType(loans []core.Loan, t core.LoanType) []core.Loan {
	out := make([]core.Loan, 0, len(loans))
	for _, l := range loans {
		if l.Type == t {
			out = append(out, l)
		}
	}
	return out
}

// Outstanding totals what is still owed on pending loans of type t, per
// currency. Over-paid loans count as zero.
func Outstanding(loans []core.Loan, t core.LoanType) Totals {
	out := Totals{}
	for _, l := range LoansByType(loans, t) {
		if l.IsPaid() {
			continue
		}
		rem := l.Remaining()
		if !rem.IsPositive() {
			continue
		}
		out[l.Currency] = out[l.Currency].Add(rem)
	}
	return out
}

// CategoryTotal is the amount booked under one category in one currency.
type CategoryTotal struct {
	Category string          `json:"category"`
	Currency core.Currency   `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// CategoryTotals groups transactions of type t by category and source wallet
// currency, largest amount first. Uncategorised transactions are grouped
// under "Uncategorized".
func CategoryTotals(txs []core.Transaction, wallets []core.Wallet, t core.TransactionType) []CategoryTotal {
	type key struct {
		category string
		currency core.Currency
	}
	idx := walletIndex(wallets)
	totals := map[key]*CategoryTotal{}
	var order []key

	for _, tx := range txs {
		if tx.Type != t {
			continue
		}
		w, ok := idx[tx.WalletID]
		if !ok {
			continue
		}
		cat := tx.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		k := key{cat, w.Currency}
		ct, ok := totals[k]
		if !ok {
			ct = &CategoryTotal{Category: cat, Currency: w.Currency, Amount: decimal.Zero}
			totals[k] = ct
			order = append(order, k)
		}
		ct.Amount = ct.Amount.Add(tx.Amount)
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, k := range order {
		out = append(out, *totals[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

func walletIndex(wallets []core.Wallet) map[string]core.Wallet {
	return core.Snapshot{Wallets: wallets}.WalletIndex()
}
