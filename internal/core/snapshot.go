package core

// Snapshot is the full persisted state: three sibling collections saved and
// loaded together.
type Snapshot struct {
	Wallets      []Wallet
	Transactions []Transaction
	Loans        []Loan
}

// Clone returns a deep copy of s. Loan payments are copied too.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Wallets:      append([]Wallet{}, s.Wallets...),
		Transactions: append([]Transaction{}, s.Transactions...),
		Loans:        make([]Loan, len(s.Loans)),
	}
	for i, l := range s.Loans {
		l.Payments = append([]Payment{}, l.Payments...)
		if l.DueDate != nil {
			d := *l.DueDate
			l.DueDate = &d
		}
		out.Loans[i] = l
	}
	return out
}

// WalletIndex returns a lookup of wallets by id.
func (s Snapshot) WalletIndex() map[string]Wallet {
	idx := make(map[string]Wallet, len(s.Wallets))
	for _, w := range s.Wallets {
		idx[w.ID] = w
	}
	return idx
}
