package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneyflow/internal/core"
	"moneyflow/internal/events"
	"moneyflow/internal/log"
	"moneyflow/internal/sheets/memory"
)

func created(id string) events.Event {
	e := events.New(events.TransactionCreated, id)
	e.Transaction = &core.Transaction{
		ID:       id,
		Type:     core.Expense,
		Amount:   decimal.NewFromInt(75),
		WalletID: "w1",
		Category: "Transport",
		Date:     core.NewDate(2025, time.February, 3),
	}
	e.WalletName = "Main LKR Account"
	e.Currency = core.LKR
	return e
}

func TestSyncWorker_HandleEvent(t *testing.T) {
	ctx := context.Background()
	mirror := memory.New()
	w := NewSyncWorker(mirror, log.Discard())

	steps := []struct {
		name    string
		event   events.Event
		wantIDs []string
	}{
		{"create first", created("tx1"), []string{"tx1"}},
		{"create second", created("tx2"), []string{"tx1", "tx2"}},
		{"redelivered create", created("tx1"), []string{"tx1", "tx2"}},
		{"wallet event ignored", events.New(events.WalletCreated, "w9"), []string{"tx1", "tx2"}},
		{"malformed create dropped", events.New(events.TransactionCreated, "tx3"), []string{"tx1", "tx2"}},
		{"delete", events.New(events.TransactionDeleted, "tx1"), []string{"tx2"}},
		{"redelivered delete", events.New(events.TransactionDeleted, "tx1"), []string{"tx2"}},
	}

	for _, s := range steps {
		if err := w.HandleEvent(ctx, s.event); err != nil {
			t.Fatalf("%s: HandleEvent: %v", s.name, err)
		}
		rows := mirror.Rows()
		if len(rows) != len(s.wantIDs) {
			t.Fatalf("%s: got %d rows, want %d", s.name, len(rows), len(s.wantIDs))
		}
		for i, id := range s.wantIDs {
			if rows[i][0] != id {
				t.Errorf("%s: row %d id = %s, want %s", s.name, i, rows[i][0], id)
			}
		}
	}

	if got := mirror.Rows()[0][5]; got != "Main LKR Account" {
		t.Errorf("wallet column = %q", got)
	}
}

func TestSyncWorker_MirrorFailureIsReturned(t *testing.T) {
	mirror := memory.New()
	mirror.Err = errors.New("quota exceeded")
	w := NewSyncWorker(mirror, log.Discard())

	if err := w.HandleEvent(context.Background(), created("tx1")); err == nil {
		t.Error("expected error so the message is requeued")
	}
	if err := w.HandleEvent(context.Background(), events.New(events.TransactionDeleted, "tx1")); err == nil {
		t.Error("expected error so the message is requeued")
	}
}
