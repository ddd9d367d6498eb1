package ledger

import (
	"context"

	"moneyflow/internal/core"
	"moneyflow/internal/events"
)

// CreateTransaction records a transaction and applies its balance effect:
// income credits, expense debits (overdraft allowed), and a transfer debits
// the source and credits the destination. Either every effect is applied or
// none is.
func (b *Book) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	if in == nil {
		return core.Transaction{}, core.ErrUnknownTxType
	}
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var created core.Transaction
	err := b.commit(ctx, "create_transaction", func(s *core.Snapshot) ([]events.Event, error) {
		tx := in.Build(b.newID())

		src := walletPos(s, tx.WalletID)
		if src < 0 {
			return nil, core.ErrWalletNotFound
		}

		switch tx.Type {
		case core.Income:
			s.Wallets[src].Balance = s.Wallets[src].Balance.Add(tx.Amount)
		case core.Expense:
			s.Wallets[src].Balance = s.Wallets[src].Balance.Sub(tx.Amount)
		case core.Transfer:
			dst := walletPos(s, tx.ToWalletID)
			if dst < 0 {
				return nil, core.ErrWalletNotFound
			}
			s.Wallets[src].Balance = s.Wallets[src].Balance.Sub(tx.Amount)
			s.Wallets[dst].Balance = s.Wallets[dst].Balance.Add(tx.Amount)
		default:
			return nil, core.ErrUnknownTxType
		}

		s.Transactions = append(s.Transactions, tx)
		created = tx
		return []events.Event{b.txEvent(events.TransactionCreated, tx, s.Wallets[src])}, nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return created, nil
}

// DeleteTransaction reverses the transaction's effect on each wallet that
// still exists and removes the record. Each side of a transfer is reversed
// on its own, so a transfer whose source wallet is gone still restores the
// destination.
func (b *Book) DeleteTransaction(ctx context.Context, id string) error {
	return b.commit(ctx, "delete_transaction", func(s *core.Snapshot) ([]events.Event, error) {
		pos := -1
		for i, tx := range s.Transactions {
			if tx.ID == id {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil, nil
		}
		tx := s.Transactions[pos]

		src := walletPos(s, tx.WalletID)
		if src >= 0 {
			switch tx.Type {
			case core.Income:
				s.Wallets[src].Balance = s.Wallets[src].Balance.Sub(tx.Amount)
			case core.Expense, core.Transfer:
				s.Wallets[src].Balance = s.Wallets[src].Balance.Add(tx.Amount)
			}
		}
		if tx.Type == core.Transfer {
			if dst := walletPos(s, tx.ToWalletID); dst >= 0 {
				s.Wallets[dst].Balance = s.Wallets[dst].Balance.Sub(tx.Amount)
			}
		}

		s.Transactions = append(s.Transactions[:pos], s.Transactions[pos+1:]...)

		var w core.Wallet
		if src >= 0 {
			w = s.Wallets[src]
		}
		return []events.Event{b.txEvent(events.TransactionDeleted, tx, w)}, nil
	})
}

func (b *Book) txEvent(kind events.Kind, tx core.Transaction, source core.Wallet) events.Event {
	e := b.event(kind, tx.ID)
	e.Transaction = &tx
	e.WalletName = source.Name
	e.Currency = source.Currency
	return e
}

// Transactions returns all transactions in insertion order.
func (b *Book) Transactions() []core.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]core.Transaction{}, b.state.Transactions...)
}

func (b *Book) Transaction(id string) (core.Transaction, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, tx := range b.state.Transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return core.Transaction{}, false
}
