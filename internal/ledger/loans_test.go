package ledger

import (
	"context"
	"errors"
	"testing"

	"moneyflow/internal/core"
	"moneyflow/internal/events"
)

func TestLoanLifecycle(t *testing.T) {
	ctx := context.Background()
	rec := &events.Recorder{}
	b := newBook(t, newStore(), WithPublisher(rec))
	w := mustWallet(t, b, "Cash", core.LKR, "100")

	loan, err := b.CreateLoan(ctx, core.LoanInput{
		Type: core.Given, PersonName: " Nimal ", Amount: dec("5000"), Currency: core.LKR, Date: day(1),
	})
	if err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}
	if loan.Status != core.Pending || len(loan.Payments) != 0 || loan.PersonName != "Nimal" {
		t.Fatalf("new loan = %+v", loan)
	}

	if err := b.AddPayment(ctx, loan.ID, dec("2000"), day(5)); err != nil {
		t.Fatal(err)
	}
	got, _ := b.Loan(loan.ID)
	if got.Status != core.Pending {
		t.Errorf("status after partial payment = %s", got.Status)
	}

	if err := b.AddPayment(ctx, loan.ID, dec("3000"), day(10)); err != nil {
		t.Fatal(err)
	}
	got, _ = b.Loan(loan.ID)
	if got.Status != core.Paid {
		t.Errorf("status after full payment = %s", got.Status)
	}

	if err := b.AddPayment(ctx, loan.ID, dec("100"), day(11)); err != nil {
		t.Fatal(err)
	}
	got, _ = b.Loan(loan.ID)
	if got.Status != core.Paid {
		t.Errorf("status after over-payment = %s", got.Status)
	}
	if !got.TotalPaid().Equal(dec("5100")) || len(got.Payments) != 3 {
		t.Errorf("payments total = %s (%d payments)", got.TotalPaid(), len(got.Payments))
	}
	if !got.Remaining().Equal(dec("-100")) {
		t.Errorf("remaining = %s", got.Remaining())
	}

	assertBalance(t, b, w.ID, "100")

	paidEvents := 0
	for _, e := range rec.Events {
		if e.Kind == events.LoanPaid {
			paidEvents++
		}
	}
	if paidEvents != 1 {
		t.Errorf("loan.paid emitted %d times, want 1", paidEvents)
	}

	if err := b.DeleteLoan(ctx, loan.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Loan(loan.ID); ok {
		t.Error("loan still present")
	}
}

func TestCreateLoan_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      core.LoanInput
		wantErr error
	}{
		{"bad type", core.LoanInput{Type: "lent", PersonName: "A", Amount: dec("1"), Currency: core.LKR, Date: day(1)}, core.ErrUnknownLoanType},
		{"blank person", core.LoanInput{Type: core.Taken, PersonName: " ", Amount: dec("1"), Currency: core.LKR, Date: day(1)}, core.ErrEmptyPerson},
		{"zero amount", core.LoanInput{Type: core.Taken, PersonName: "A", Amount: dec("0"), Currency: core.LKR, Date: day(1)}, core.ErrInvalidAmount},
		{"bad currency", core.LoanInput{Type: core.Taken, PersonName: "A", Amount: dec("1"), Currency: "EUR", Date: day(1)}, core.ErrUnknownCurrency},
		{"no date", core.LoanInput{Type: core.Taken, PersonName: "A", Amount: dec("1"), Currency: core.USD}, core.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBook(t, newStore())
			if _, err := b.CreateLoan(context.Background(), tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if len(b.Loans()) != 0 {
				t.Error("invalid loan stored")
			}
		})
	}
}

func TestAddPayment_Validation(t *testing.T) {
	ctx := context.Background()
	b := newBook(t, newStore())
	loan, err := b.CreateLoan(ctx, core.LoanInput{Type: core.Taken, PersonName: "Kamal", Amount: dec("50"), Currency: core.USD, Date: day(1)})
	if err != nil {
		t.Fatal(err)
	}

	if err := b.AddPayment(ctx, loan.ID, dec("0"), day(2)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("zero payment err = %v", err)
	}
	if err := b.AddPayment(ctx, loan.ID, dec("-5"), day(2)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("negative payment err = %v", err)
	}
	if err := b.AddPayment(ctx, loan.ID, dec("5"), core.Date{}); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("missing date err = %v", err)
	}
	got, _ := b.Loan(loan.ID)
	if len(got.Payments) != 0 {
		t.Errorf("payments = %+v", got.Payments)
	}
}

func TestLoans_CreationOrder(t *testing.T) {
	ctx := context.Background()
	b := newBook(t, newStore())
	for _, p := range []string{"A", "B", "C"} {
		if _, err := b.CreateLoan(ctx, core.LoanInput{Type: core.Given, PersonName: p, Amount: dec("1"), Currency: core.LKR, Date: day(1)}); err != nil {
			t.Fatal(err)
		}
	}
	loans := b.Loans()
	if len(loans) != 3 || loans[0].PersonName != "A" || loans[2].PersonName != "C" {
		t.Errorf("loans = %+v", loans)
	}
}
