// Package worker applies ledger events to the spreadsheet mirror.
package worker

import (
	"context"
	"fmt"

	"moneyflow/internal/events"
	"moneyflow/internal/log"
	"moneyflow/internal/sheets"
)

// SyncWorker keeps a TransactionMirror in step with the ledger.
type SyncWorker struct {
	mirror sheets.TransactionMirror
	logger *log.Logger
}

func NewSyncWorker(mirror sheets.TransactionMirror, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SyncWorker{mirror: mirror, logger: logger.WithComponent(log.ComponentWorker)}
}

// HandleEvent mirrors transaction events. Other kinds are acknowledged
// without effect.
func (w *SyncWorker) HandleEvent(ctx context.Context, e events.Event) error {
	switch e.Kind {
	case events.TransactionCreated:
		// A creation event without payload can never succeed; requeueing it would loop.
		if e.Transaction == nil {
			w.logger.WarnContext(ctx, "Dropping malformed event", log.FieldEventKind, e.Kind, log.FieldEntityID, e.ID)
			return nil
		}
		if err := w.mirror.AppendTransaction(ctx, *e.Transaction, e.WalletName, e.Currency); err != nil {
			return fmt.Errorf("mirror transaction %s: %w", e.ID, err)
		}
		w.logger.InfoContext(ctx, "Mirrored transaction",
			log.FieldEntityID, e.ID,
			log.FieldAmount, e.Transaction.Amount.String(),
			log.FieldCurrency, e.Currency)

	case events.TransactionDeleted:
		if err := w.mirror.DeleteTransaction(ctx, e.ID); err != nil {
			return fmt.Errorf("remove mirrored transaction %s: %w", e.ID, err)
		}
		w.logger.InfoContext(ctx, "Removed mirrored transaction", log.FieldEntityID, e.ID)

	default:
		w.logger.DebugContext(ctx, "Ignoring event", log.FieldEventKind, e.Kind, log.FieldEntityID, e.ID)
	}
	return nil
}
