// Package report derives read-only views from ledger state: filtered and
// sorted transaction lists, per-currency summaries and the monthly ledger
// export. Nothing here mutates its input.
package report

import (
	"slices"
	"time"

	"moneyflow/internal/core"
)

// Predicate selects transactions.
type Predicate func(core.Transaction) bool

func InMonth(year int, month time.Month) Predicate {
	return func(tx core.Transaction) bool { return tx.Date.In(year, month) }
}

func OfType(t core.TransactionType) Predicate {
	return func(tx core.Transaction) bool { return tx.Type == t }
}

// InvolvesWallet matches transactions using the wallet as source or
// destination.
func InvolvesWallet(id string) Predicate {
	return func(tx core.Transaction) bool { return tx.Involves(id) }
}

// Filter keeps the transactions matching every predicate, in input order.
func Filter(txs []core.Transaction, preds ...Predicate) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
next:
	for _, tx := range txs {
		for _, p := range preds {
			if !p(tx) {
				continue next
			}
		}
		out = append(out, tx)
	}
	return out
}

// FilterByMonth keeps the transactions dated in the given calendar month.
func FilterByMonth(txs []core.Transaction, year int, month time.Month) []core.Transaction {
	return Filter(txs, InMonth(year, month))
}

// SortByDateDesc returns a copy sorted newest first. Equal dates keep their
// relative order.
func SortByDateDesc(txs []core.Transaction) []core.Transaction {
	out := slices.Clone(txs)
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out
}

// SortByDateAsc returns a copy sorted oldest first. Equal dates keep their
// relative order.
func SortByDateAsc(txs []core.Transaction) []core.Transaction {
	out := slices.Clone(txs)
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		return a.Date.Compare(b.Date.Time)
	})
	return out
}

// Query is the transaction list filter of the dashboard. Zero fields do not
// filter; Year and Month apply together.
type Query struct {
	Year     int
	Month    time.Month
	Type     core.TransactionType
	WalletID string
	Limit    int
}

// Apply filters txs and returns them newest first, truncated to Limit.
func (q Query) Apply(txs []core.Transaction) []core.Transaction {
	var preds []Predicate
	if q.Year != 0 && q.Month != 0 {
		preds = append(preds, InMonth(q.Year, q.Month))
	}
	if q.Type != "" {
		preds = append(preds, OfType(q.Type))
	}
	if q.WalletID != "" {
		preds = append(preds, InvolvesWallet(q.WalletID))
	}

	out := SortByDateDesc(Filter(txs, preds...))
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}
