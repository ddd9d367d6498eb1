package events

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneyflow/internal/core"
)

func TestNew(t *testing.T) {
	e := New(WalletCreated, "w1")
	if e.Kind != WalletCreated || e.ID != "w1" {
		t.Errorf("New() = %+v", e)
	}
	if time.Since(e.Timestamp) > time.Second {
		t.Error("timestamp should be recent")
	}
	if e.IsTransaction() {
		t.Error("wallet event reported as transaction event")
	}
}

func TestEvent_JSON(t *testing.T) {
	tx := core.Transaction{
		ID: "t1", Type: core.Expense, Amount: decimal.RequireFromString("12.50"),
		WalletID: "w1", Category: "Food", Date: core.NewDate(2025, time.May, 3),
	}
	e := Event{
		Kind: TransactionCreated, ID: "t1",
		Timestamp:   time.Date(2025, 5, 3, 10, 0, 0, 0, time.UTC),
		Transaction: &tx, WalletName: "Cash", Currency: core.LKR,
	}

	data, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	got, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}

	if got.Kind != e.Kind || got.WalletName != "Cash" || got.Currency != core.LKR {
		t.Errorf("FromJSON() = %+v", got)
	}
	if got.Transaction == nil || !got.Transaction.Amount.Equal(tx.Amount) || got.Transaction.Date.String() != "2025-05-03" {
		t.Errorf("transaction = %+v", got.Transaction)
	}
	if !got.IsTransaction() {
		t.Error("expected transaction event")
	}
}

func TestFromJSON_Invalid(t *testing.T) {
	if _, err := FromJSON([]byte(`{"kind": 5}`)); err == nil {
		t.Error("FromJSON() should fail on invalid payload")
	}
}
