package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"moneyflow/internal/core"
	"moneyflow/internal/log"
)

type createWalletRequest struct {
	Name     string           `json:"name"`
	Currency string           `json:"currency"`
	Balance  *decimal.Decimal `json:"balance"`
}

type updateWalletRequest struct {
	Name     *string          `json:"name"`
	Currency *string          `json:"currency"`
	Balance  *decimal.Decimal `json:"balance"`
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.book.Wallets())
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	currency, err := core.ParseCurrency(req.Currency)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}

	wallet, err := s.book.CreateWallet(r.Context(), sanitizeInput(req.Name), currency, balance)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	s.slog.LogMutation(r.Context(), log.OpCreate, "wallet", wallet.ID, s.book.Revision())
	writeJSON(w, http.StatusCreated, wallet)
}

func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req updateWalletRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}

	u := core.WalletUpdate{Balance: req.Balance}
	if req.Name != nil {
		name := sanitizeInput(*req.Name)
		u.Name = &name
	}
	if req.Currency != nil {
		c, err := core.ParseCurrency(*req.Currency)
		if err != nil {
			s.writeError(w, r, log.OpUpdate, err)
			return
		}
		u.Currency = &c
	}

	if err := s.book.UpdateWallet(r.Context(), id, u); err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	wallet, ok := s.book.Wallet(id)
	if !ok {
		s.writeError(w, r, log.OpUpdate, core.ErrWalletNotFound)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	if err := s.book.DeleteWallet(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
