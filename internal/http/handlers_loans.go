package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"moneyflow/internal/core"
	"moneyflow/internal/log"
	"moneyflow/internal/report"
)

type createLoanRequest struct {
	Type       string          `json:"type"`
	PersonName string          `json:"personName"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Date       core.Date       `json:"date"`
	DueDate    *core.Date      `json:"dueDate"`
	Note       string          `json:"note"`
}

type addPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   core.Date       `json:"date"`
}

// loanResponse adds the derived repayment figures to a loan.
type loanResponse struct {
	core.Loan
	TotalPaid decimal.Decimal `json:"totalPaid"`
	Remaining decimal.Decimal `json:"remaining"`
	Progress  decimal.Decimal `json:"progress"`
}

func newLoanResponse(l core.Loan) loanResponse {
	return loanResponse{
		Loan:      l,
		TotalPaid: l.TotalPaid(),
		Remaining: l.Remaining(),
		Progress:  l.Progress(),
	}
}

func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {
	loans := s.book.Loans()
	if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
		t, err := core.ParseLoanType(v)
		if err != nil {
			s.writeError(w, r, log.OpRead, err)
			return
		}
		loans = report.LoansByType(loans, t)
	}

	out := make([]loanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, newLoanResponse(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	typ, err := core.ParseLoanType(req.Type)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	currency, err := core.ParseCurrency(req.Currency)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}

	loan, err := s.book.CreateLoan(r.Context(), core.LoanInput{
		Type:       typ,
		PersonName: sanitizeInput(req.PersonName),
		Amount:     req.Amount,
		Currency:   currency,
		Date:       req.Date,
		DueDate:    req.DueDate,
		Note:       sanitizeInput(req.Note),
	})
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	s.slog.LogMutation(r.Context(), log.OpCreate, "loan", loan.ID, s.book.Revision())
	writeJSON(w, http.StatusCreated, newLoanResponse(loan))
}

func (s *Server) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req addPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, log.OpPay, err)
		return
	}
	if err := s.book.AddPayment(r.Context(), id, req.Amount, req.Date); err != nil {
		s.writeError(w, r, log.OpPay, err)
		return
	}
	loan, ok := s.book.Loan(id)
	if !ok {
		s.writeError(w, r, log.OpPay, core.ErrLoanNotFound)
		return
	}
	s.slog.LogMutation(r.Context(), log.OpPay, "loan", id, s.book.Revision())
	writeJSON(w, http.StatusOK, newLoanResponse(loan))
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := s.book.DeleteLoan(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
