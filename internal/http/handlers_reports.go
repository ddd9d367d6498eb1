package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"moneyflow/internal/core"
	"moneyflow/internal/log"
	"moneyflow/internal/report"
)

// summaryKey identifies a cached summary. Any committed mutation bumps the
// revision, so stale entries are never served.
type summaryKey struct {
	revision uint64
	year     int
	month    time.Month
}

type SummaryResponse struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Period   string `json:"period"`
	Revision uint64 `json:"revision"`

	Income  report.Totals `json:"income"`
	Expense report.Totals `json:"expense"`
	Net     report.Totals `json:"net"`

	Formatted FormattedSummary `json:"formatted"`

	IncomeByCategory  []report.CategoryTotal `json:"incomeByCategory"`
	ExpenseByCategory []report.CategoryTotal `json:"expenseByCategory"`

	OutstandingGiven report.Totals `json:"outstandingGiven"`
	OutstandingTaken report.Totals `json:"outstandingTaken"`

	TransactionCount int `json:"transactionCount"`
}

// FormattedSummary holds the figures as the dashboard displays them.
type FormattedSummary struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Net     string `json:"net"`
}

func buildSummary(snap core.Snapshot, revision uint64, year int, month time.Month) SummaryResponse {
	txs := report.FilterByMonth(snap.Transactions, year, month)
	sum := report.SummarizeByCurrency(txs, snap.Wallets)
	net := report.NetBalance(sum)

	return SummaryResponse{
		Year:     year,
		Month:    int(month),
		Period:   fmt.Sprintf("%s %d", month, year),
		Revision: revision,
		Income:   sum.Income,
		Expense:  sum.Expense,
		Net:      net,
		Formatted: FormattedSummary{
			Income:  report.FormatMultiCurrency(sum.Income),
			Expense: report.FormatMultiCurrency(sum.Expense),
			Net:     report.FormatNet(net),
		},
		IncomeByCategory:  report.CategoryTotals(txs, snap.Wallets, core.Income),
		ExpenseByCategory: report.CategoryTotals(txs, snap.Wallets, core.Expense),
		OutstandingGiven:  report.Outstanding(snap.Loans, core.Given),
		OutstandingTaken:  report.Outstanding(snap.Loans, core.Taken),
		TransactionCount:  len(txs),
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	mp, err := parseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}

	key := summaryKey{revision: s.book.Revision(), year: mp.Year, month: mp.Month}
	if cached, ok := s.summaryCache.Get(key); ok {
		s.metrics.CacheLookup(true)
		writeJSON(w, http.StatusOK, cached)
		return
	}
	s.metrics.CacheLookup(false)

	snap, rev := s.book.View()
	resp := buildSummary(snap, rev, mp.Year, mp.Month)
	s.summaryCache.Set(summaryKey{revision: rev, year: mp.Year, month: mp.Month}, resp)
	writeJSON(w, http.StatusOK, resp)
}

var ledgerFormats = map[string]string{
	"html": "text/html; charset=utf-8",
	"md":   "text/markdown; charset=utf-8",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	mp, err := parseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		s.writeError(w, r, log.OpExport, err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "html"
	}
	contentType, ok := ledgerFormats[format]
	if !ok {
		s.writeError(w, r, log.OpExport, badRequest("unknown format %q (want html, md or xlsx)", format))
		return
	}

	l := report.BuildLedger(s.book.Snapshot(), mp.Year, mp.Month, s.now())

	var buf bytes.Buffer
	switch format {
	case "html":
		err = report.HTML(&buf, l)
	case "md":
		_, err = buf.WriteString(report.Markdown(l))
	case "xlsx":
		err = report.XLSX(&buf, l)
	}
	if err != nil {
		s.writeError(w, r, log.OpExport, fmt.Errorf("render %s ledger: %w", format, err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.Filename(mp.Year, mp.Month, format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type categoriesResponse struct {
	Income  []string `json:"income,omitempty"`
	Expense []string `json:"expense,omitempty"`
}

// handleCategories returns the category suggestions for the entry form.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	v := strings.TrimSpace(r.URL.Query().Get("type"))
	if v == "" {
		writeJSON(w, http.StatusOK, categoriesResponse{
			Income:  core.Categories(core.Income),
			Expense: core.Categories(core.Expense),
		})
		return
	}
	t, err := core.ParseTransactionType(v)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	var resp categoriesResponse
	switch t {
	case core.Income:
		resp.Income = core.Categories(t)
	case core.Expense:
		resp.Expense = core.Categories(t)
	}
	writeJSON(w, http.StatusOK, resp)
}
