// Package sheets mirrors ledger transactions into a spreadsheet-like
// destination. The mirror is one-way: the ledger is the source of truth.
package sheets

import (
	"context"

	"moneyflow/internal/core"
)

// TransactionMirror receives transactions as they are created and deleted.
// Implementations must be idempotent: an event may be delivered twice.
type TransactionMirror interface {
	AppendTransaction(ctx context.Context, tx core.Transaction, walletName string, currency core.Currency) error
	DeleteTransaction(ctx context.Context, id string) error
}

// Header is the first row of a mirror sheet.
var Header = []string{"ID", "Date", "Type", "Amount", "Currency", "Wallet", "To Wallet ID", "Category", "Description"}

// Row renders a transaction in Header order. The source wallet is named by
// walletName when known and by its id otherwise.
func Row(tx core.Transaction, walletName string, currency core.Currency) []string {
	wallet := walletName
	if wallet == "" {
		wallet = tx.WalletID
	}
	return []string{
		tx.ID,
		tx.Date.String(),
		string(tx.Type),
		tx.Amount.StringFixed(2),
		string(currency),
		wallet,
		tx.ToWalletID,
		tx.Category,
		tx.Description,
	}
}
