package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"moneyflow/internal/core"
	"moneyflow/internal/events"
)

func loanPos(s *core.Snapshot, id string) int {
	for i, l := range s.Loans {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// CreateLoan records a pending loan with no payments. Loans never touch
// wallet balances.
func (b *Book) CreateLoan(ctx context.Context, in core.LoanInput) (core.Loan, error) {
	if err := in.Validate(); err != nil {
		return core.Loan{}, err
	}

	var created core.Loan
	err := b.commit(ctx, "create_loan", func(s *core.Snapshot) ([]events.Event, error) {
		created = in.Build(b.newID())
		s.Loans = append(s.Loans, created)
		e := b.event(events.LoanCreated, created.ID)
		e.Currency = created.Currency
		return []events.Event{e}, nil
	})
	if err != nil {
		return core.Loan{}, err
	}
	return created, nil
}

// AddPayment appends a payment to the loan. Once the payments cover the
// loan amount its status becomes paid and stays paid. Over-payment is
// accepted.
func (b *Book) AddPayment(ctx context.Context, loanID string, amount decimal.Decimal, date core.Date) error {
	if !core.ValidAmount(amount) {
		return core.ErrInvalidAmount
	}
	if err := date.Validate(); err != nil {
		return err
	}

	return b.commit(ctx, "add_payment", func(s *core.Snapshot) ([]events.Event, error) {
		i := loanPos(s, loanID)
		if i < 0 {
			return nil, nil
		}
		loan := &s.Loans[i]
		loan.Payments = append(loan.Payments, core.Payment{
			ID:     b.newID(),
			Amount: amount,
			Date:   date,
		})

		evs := []events.Event{b.event(events.LoanPaymentAdded, loanID)}
		if loan.Status != core.Paid && loan.TotalPaid().GreaterThanOrEqual(loan.Amount) {
			loan.Status = core.Paid
			evs = append(evs, b.event(events.LoanPaid, loanID))
		}
		return evs, nil
	})
}

// DeleteLoan removes the loan and its payments.
func (b *Book) DeleteLoan(ctx context.Context, id string) error {
	return b.commit(ctx, "delete_loan", func(s *core.Snapshot) ([]events.Event, error) {
		i := loanPos(s, id)
		if i < 0 {
			return nil, nil
		}
		s.Loans = append(s.Loans[:i], s.Loans[i+1:]...)
		return []events.Event{b.event(events.LoanDeleted, id)}, nil
	})
}

// Loans returns all loans in creation order.
func (b *Book) Loans() []core.Loan {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone().Loans
}

func (b *Book) Loan(id string) (core.Loan, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := loanPos(&b.state, id); i >= 0 {
		return b.state.Clone().Loans[i], true
	}
	return core.Loan{}, false
}
