package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"moneyflow/internal/core"
	"moneyflow/internal/events"
)

func walletPos(s *core.Snapshot, id string) int {
	for i, w := range s.Wallets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// CreateWallet adds a wallet with the given opening balance.
func (b *Book) CreateWallet(ctx context.Context, name string, currency core.Currency, initial decimal.Decimal) (core.Wallet, error) {
	w := core.Wallet{
		Name:     strings.TrimSpace(name),
		Currency: currency,
		Balance:  initial,
	}
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}

	err := b.commit(ctx, "create_wallet", func(s *core.Snapshot) ([]events.Event, error) {
		w.ID = b.newID()
		s.Wallets = append(s.Wallets, w)
		e := b.event(events.WalletCreated, w.ID)
		e.WalletName, e.Currency = w.Name, w.Currency
		return []events.Event{e}, nil
	})
	if err != nil {
		return core.Wallet{}, err
	}
	return w, nil
}

// UpdateWallet merges the supplied fields into the wallet. Transactions are
// not revalued when the currency changes.
func (b *Book) UpdateWallet(ctx context.Context, id string, u core.WalletUpdate) error {
	if err := u.Validate(); err != nil {
		return err
	}
	return b.commit(ctx, "update_wallet", func(s *core.Snapshot) ([]events.Event, error) {
		i := walletPos(s, id)
		if i < 0 {
			return nil, nil
		}
		s.Wallets[i] = u.Apply(s.Wallets[i])
		e := b.event(events.WalletUpdated, id)
		e.WalletName, e.Currency = s.Wallets[i].Name, s.Wallets[i].Currency
		return []events.Event{e}, nil
	})
}

// DeleteWallet removes a wallet that no transaction references, as source
// or destination. Otherwise it fails with core.ErrWalletInUse.
func (b *Book) DeleteWallet(ctx context.Context, id string) error {
	return b.commit(ctx, "delete_wallet", func(s *core.Snapshot) ([]events.Event, error) {
		i := walletPos(s, id)
		if i < 0 {
			return nil, nil
		}
		for _, tx := range s.Transactions {
			if tx.Involves(id) {
				return nil, core.ErrWalletInUse
			}
		}
		s.Wallets = append(s.Wallets[:i], s.Wallets[i+1:]...)
		return []events.Event{b.event(events.WalletDeleted, id)}, nil
	})
}

// SeedDefaultWallets creates the default LKR, USDT and USD wallets when the
// book has no wallet at all. It reports whether anything was created.
func (b *Book) SeedDefaultWallets(ctx context.Context) (bool, error) {
	seeded := false
	err := b.commit(ctx, "seed_wallets", func(s *core.Snapshot) ([]events.Event, error) {
		if len(s.Wallets) > 0 {
			return nil, nil
		}
		var evs []events.Event
		for _, w := range core.DefaultWallets {
			w.ID = b.newID()
			w.Balance = decimal.Zero
			s.Wallets = append(s.Wallets, w)
			e := b.event(events.WalletCreated, w.ID)
			e.WalletName, e.Currency = w.Name, w.Currency
			evs = append(evs, e)
		}
		seeded = true
		return evs, nil
	})
	return seeded, err
}

func (b *Book) Wallet(id string) (core.Wallet, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := walletPos(&b.state, id); i >= 0 {
		return b.state.Wallets[i], true
	}
	return core.Wallet{}, false
}

// Wallets returns all wallets in creation order.
func (b *Book) Wallets() []core.Wallet {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]core.Wallet{}, b.state.Wallets...)
}
