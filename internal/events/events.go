// Package events describes the change notifications emitted by the ledger
// after each committed mutation.
package events

import (
	"context"
	"encoding/json"
	"time"

	"moneyflow/internal/core"
)

type Kind string

const (
	WalletCreated Kind = "wallet.created"
	WalletUpdated Kind = "wallet.updated"
	WalletDeleted Kind = "wallet.deleted"

	TransactionCreated Kind = "transaction.created"
	TransactionDeleted Kind = "transaction.deleted"

	LoanCreated      Kind = "loan.created"
	LoanPaymentAdded Kind = "loan.payment_added"
	LoanPaid         Kind = "loan.paid"
	LoanDeleted      Kind = "loan.deleted"
)

// Event is a single change notification. ID names the affected record.
// Transaction events carry the transaction together with the source
// wallet's name and currency as they were when the event was emitted.
type Event struct {
	Kind        Kind              `json:"kind"`
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Transaction *core.Transaction `json:"transaction,omitempty"`
	WalletName  string            `json:"wallet_name,omitempty"`
	Currency    core.Currency     `json:"currency,omitempty"`
}

// Publisher delivers events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// New creates an event stamped with the current time.
func New(kind Kind, id string) Event {
	return Event{Kind: kind, ID: id, Timestamp: time.Now().UTC()}
}

// IsTransaction reports whether the event is about a transaction.
func (e Event) IsTransaction() bool {
	return e.Kind == TransactionCreated || e.Kind == TransactionDeleted
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Recorder is a Publisher that keeps every event in memory.
type Recorder struct {
	Events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.Events = append(r.Events, e)
	return r.Err
}

// Kinds lists the recorded event kinds in order.
func (r *Recorder) Kinds() []Kind {
	kinds := make([]Kind, len(r.Events))
	for i, e := range r.Events {
		kinds[i] = e.Kind
	}
	return kinds
}
