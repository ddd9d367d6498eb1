package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"moneyflow/internal/core"
	"moneyflow/internal/report"
)

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month time.Month
}

// parseMonthParams reads year and month from the query, defaulting each to
// the current one.
func parseMonthParams(query url.Values, now time.Time) (MonthParams, error) {
	p := MonthParams{Year: now.Year(), Month: now.Month()}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			return MonthParams{}, badRequest("invalid year %q", v)
		}
		p.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return MonthParams{}, badRequest("invalid month %q", v)
		}
		p.Month = time.Month(m)
	}
	return p, nil
}

// parseTransactionQuery builds the dashboard filter. Without year and month
// every transaction is listed.
func parseTransactionQuery(query url.Values, now time.Time) (report.Query, error) {
	var q report.Query

	if query.Get("year") != "" || query.Get("month") != "" {
		mp, err := parseMonthParams(query, now)
		if err != nil {
			return report.Query{}, err
		}
		q.Year, q.Month = mp.Year, mp.Month
	}
	if v := strings.TrimSpace(query.Get("type")); v != "" {
		t, err := core.ParseTransactionType(v)
		if err != nil {
			return report.Query{}, err
		}
		q.Type = t
	}
	q.WalletID = strings.TrimSpace(query.Get("wallet"))
	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return report.Query{}, badRequest("invalid limit %q", v)
		}
		q.Limit = n
	}
	return q, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
