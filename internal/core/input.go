package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const maxDescriptionLen = 200

// TransactionInput is the data needed to record a transaction. It is
// implemented by Income, Expense and Transfer only.
type TransactionInput interface {
	Kind() TransactionType
	Validate() error
	// Build returns the transaction record with the given id.
	Build(id string) Transaction
}

type (
	// IncomeInput credits Amount to WalletID.
	IncomeInput struct {
		WalletID    string
		Amount      decimal.Decimal
		Category    string
		Description string
		Date        Date
	}

	// ExpenseInput debits Amount from WalletID.
	ExpenseInput struct {
		WalletID    string
		Amount      decimal.Decimal
		Category    string
		Description string
		Date        Date
	}

	// TransferInput moves Amount from FromWalletID to ToWalletID.
	TransferInput struct {
		FromWalletID string
		ToWalletID   string
		Amount       decimal.Decimal
		Category     string
		Description  string
		Date         Date
	}

	LoanInput struct {
		Type       LoanType
		PersonName string
		Amount     decimal.Decimal
		Currency   Currency
		Date       Date
		DueDate    *Date
		Note       string
	}

	// WalletUpdate lists the wallet fields to change; nil fields are kept.
	WalletUpdate struct {
		Name     *string
		Currency *Currency
		Balance  *decimal.Decimal
	}
)

func (IncomeInput) Kind() TransactionType   { return Income }
func (ExpenseInput) Kind() TransactionType  { return Expense }
func (TransferInput) Kind() TransactionType { return Transfer }

func (in IncomeInput) Validate() error {
	return validateSingle(in.WalletID, in.Amount, in.Description, in.Date)
}

func (in ExpenseInput) Validate() error {
	return validateSingle(in.WalletID, in.Amount, in.Description, in.Date)
}

func (in TransferInput) Validate() error {
	if strings.TrimSpace(in.ToWalletID) == "" {
		return ErrWalletRequired
	}
	if err := validateSingle(in.FromWalletID, in.Amount, in.Description, in.Date); err != nil {
		return err
	}
	if in.FromWalletID == in.ToWalletID {
		return ErrSameWallet
	}
	return nil
}

func validateSingle(walletID string, amount decimal.Decimal, desc string, date Date) error {
	if strings.TrimSpace(walletID) == "" {
		return ErrWalletRequired
	}
	if !ValidAmount(amount) {
		return ErrInvalidAmount
	}
	if len(desc) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return date.Validate()
}

func (in IncomeInput) Build(id string) Transaction {
	return Transaction{
		ID:          id,
		Type:        Income,
		Amount:      in.Amount,
		WalletID:    in.WalletID,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
	}
}

func (in ExpenseInput) Build(id string) Transaction {
	return Transaction{
		ID:          id,
		Type:        Expense,
		Amount:      in.Amount,
		WalletID:    in.WalletID,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
	}
}

func (in TransferInput) Build(id string) Transaction {
	return Transaction{
		ID:          id,
		Type:        Transfer,
		Amount:      in.Amount,
		WalletID:    in.FromWalletID,
		ToWalletID:  in.ToWalletID,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
	}
}

// NewTransactionInput builds the input variant matching typ. toWalletID is
// only read for transfers.
func NewTransactionInput(typ TransactionType, walletID, toWalletID string, amount decimal.Decimal, category, description string, date Date) (TransactionInput, error) {
	switch typ {
	case Income:
		return IncomeInput{WalletID: walletID, Amount: amount, Category: category, Description: description, Date: date}, nil
	case Expense:
		return ExpenseInput{WalletID: walletID, Amount: amount, Category: category, Description: description, Date: date}, nil
	case Transfer:
		return TransferInput{FromWalletID: walletID, ToWalletID: toWalletID, Amount: amount, Category: category, Description: description, Date: date}, nil
	}
	return nil, ErrUnknownTxType
}

func (in LoanInput) Validate() error {
	if !in.Type.IsValid() {
		return ErrUnknownLoanType
	}
	if strings.TrimSpace(in.PersonName) == "" {
		return ErrEmptyPerson
	}
	if !ValidAmount(in.Amount) {
		return ErrInvalidAmount
	}
	if !in.Currency.IsValid() {
		return ErrUnknownCurrency
	}
	return in.Date.Validate()
}

// Build returns a pending loan with no payments.
func (in LoanInput) Build(id string) Loan {
	var due *Date
	if in.DueDate != nil && !in.DueDate.IsZero() {
		d := *in.DueDate
		due = &d
	}
	return Loan{
		ID:         id,
		Type:       in.Type,
		PersonName: strings.TrimSpace(in.PersonName),
		Amount:     in.Amount,
		Currency:   in.Currency,
		Date:       in.Date,
		DueDate:    due,
		Note:       strings.TrimSpace(in.Note),
		Status:     Pending,
		Payments:   []Payment{},
	}
}

// Apply merges the update into w.
func (u WalletUpdate) Apply(w Wallet) Wallet {
	if u.Name != nil {
		w.Name = strings.TrimSpace(*u.Name)
	}
	if u.Currency != nil {
		w.Currency = *u.Currency
	}
	if u.Balance != nil {
		w.Balance = *u.Balance
	}
	return w
}

func (u WalletUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrEmptyName
	}
	if u.Currency != nil && !u.Currency.IsValid() {
		return ErrUnknownCurrency
	}
	if u.Balance != nil && !withinLimit(*u.Balance) {
		return ErrInvalidAmount
	}
	return nil
}

func (w Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	if !w.Currency.IsValid() {
		return ErrUnknownCurrency
	}
	if !withinLimit(w.Balance) {
		return ErrInvalidAmount
	}
	return nil
}
