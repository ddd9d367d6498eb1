package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"moneyflow/internal/core"
	"moneyflow/internal/log"
)

type createTransactionRequest struct {
	Type        string          `json:"type"`
	WalletID    string          `json:"walletId"`
	ToWalletID  string          `json:"toWalletId"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        core.Date       `json:"date"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q, err := parseTransactionQuery(r.URL.Query(), s.now())
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	txs := q.Apply(s.book.Transactions())
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	in, err := core.NewTransactionInput(typ, req.WalletID, req.ToWalletID, req.Amount,
		sanitizeInput(req.Category), sanitizeInput(req.Description), req.Date)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}

	tx, err := s.book.CreateTransaction(r.Context(), in)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	s.slog.LogMutation(r.Context(), log.OpCreate, "transaction", tx.ID, s.book.Revision())
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.book.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
