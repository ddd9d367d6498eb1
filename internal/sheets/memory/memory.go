// Package memory is an in-process TransactionMirror used for local runs
// and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"moneyflow/internal/core"
	"moneyflow/internal/sheets"
)

var _ sheets.TransactionMirror = (*Mirror)(nil)

type Mirror struct {
	mu   sync.Mutex
	rows [][]string

	// Err, when set, is returned by every call. Used to simulate outages.
	Err error
}

func New() *Mirror {
	return &Mirror{}
}

// AppendTransaction adds a row unless one with the same id exists.
func (m *Mirror) AppendTransaction(_ context.Context, tx core.Transaction, walletName string, currency core.Currency) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.find(tx.ID) >= 0 {
		return nil
	}
	m.rows = append(m.rows, sheets.Row(tx, walletName, currency))
	return nil
}

// DeleteTransaction removes the row with the given id, if any.
func (m *Mirror) DeleteTransaction(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if i := m.find(id); i >= 0 {
		m.rows = slices.Delete(m.rows, i, i+1)
	}
	return nil
}

// Rows returns a copy of the mirrored rows, without the header.
func (m *Mirror) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = slices.Clone(r)
	}
	return out
}

func (m *Mirror) find(id string) int {
	return slices.IndexFunc(m.rows, func(r []string) bool { return r[0] == id })
}
