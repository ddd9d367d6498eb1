package core

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"

	Given LoanType = "given"
	Taken LoanType = "taken"

	Pending LoanStatus = "pending"
	Paid    LoanStatus = "paid"
)

const dateLayout = "2006-01-02"

type (
	TransactionType string
	LoanType        string
	LoanStatus      string

	// Date is a calendar day. It carries no time zone: month filtering
	// looks at the stored year, month and day only.
	Date struct {
		time.Time
	}

	Wallet struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Currency Currency        `json:"currency"`
		Balance  decimal.Decimal `json:"balance"`
	}

	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      decimal.Decimal `json:"amount"`
		WalletID    string          `json:"walletId"`
		ToWalletID  string          `json:"toWalletId,omitempty"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
	}

	Payment struct {
		ID     string          `json:"id"`
		Amount decimal.Decimal `json:"amount"`
		Date   Date            `json:"date"`
	}

	Loan struct {
		ID         string          `json:"id"`
		Type       LoanType        `json:"type"`
		PersonName string          `json:"personName"`
		Amount     decimal.Decimal `json:"amount"`
		Currency   Currency        `json:"currency"`
		Date       Date            `json:"date"`
		DueDate    *Date           `json:"dueDate"`
		Note       string          `json:"note"`
		Status     LoanStatus      `json:"status"`
		Payments   []Payment       `json:"payments"`
	}
)

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string. RFC 3339 timestamps are accepted
// too; only their date part is kept.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) && s[len(dateLayout)] == 'T' {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// In reports whether d falls in the given calendar month.
func (d Date) In(year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Display formats the date like "Jan 2, 2006".
func (d Date) Display() string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("Jan 2, 2006")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

// ParseTransactionType converts s into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrUnknownTxType
	}
	return t, nil
}

// Title returns the capitalised type name, e.g. "Income".
func (t TransactionType) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

func (t LoanType) IsValid() bool {
	return t == Given || t == Taken
}

// ParseLoanType converts s into a LoanType.
func ParseLoanType(s string) (LoanType, error) {
	t := LoanType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrUnknownLoanType
	}
	return t, nil
}

// Involves reports whether the transaction touches wallet id, as source or
// destination.
func (tx Transaction) Involves(walletID string) bool {
	return tx.WalletID == walletID || (tx.ToWalletID != "" && tx.ToWalletID == walletID)
}

// Title is the label shown for a transaction in lists.
func (tx Transaction) Title() string {
	switch {
	case tx.Description != "":
		return tx.Description
	case tx.Category != "":
		return tx.Category
	}
	return string(tx.Type)
}

// TotalPaid sums all recorded payments.
func (l Loan) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Remaining is the loan amount minus what has been paid. It goes negative
// on over-payment.
func (l Loan) Remaining() decimal.Decimal {
	return l.Amount.Sub(l.TotalPaid())
}

// Progress is the paid share of the loan, in percent.
func (l Loan) Progress() decimal.Decimal {
	if !l.Amount.IsPositive() {
		return decimal.Zero
	}
	return l.TotalPaid().Div(l.Amount).Mul(decimal.NewFromInt(100))
}

func (l Loan) IsPaid() bool {
	return l.Status == Paid
}
