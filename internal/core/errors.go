package core

import (
	"errors"
)

// Error kinds. Every error returned by a ledger operation wraps exactly one
// of them, so callers can branch with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
)

var (
	ErrWalletNotFound = newError(ErrNotFound, "wallet not found")
	ErrLoanNotFound   = newError(ErrNotFound, "loan not found")

	ErrWalletInUse = newError(ErrReferentialIntegrity, "cannot delete wallet with transactions")

	ErrWalletRequired     = newError(ErrValidation, "please select a wallet")
	ErrSameWallet         = newError(ErrValidation, "cannot transfer to the same wallet")
	ErrInvalidAmount      = newError(ErrValidation, "amount must be greater than zero")
	ErrInvalidDate        = newError(ErrValidation, "date is required")
	ErrEmptyName          = newError(ErrValidation, "name is required")
	ErrEmptyPerson        = newError(ErrValidation, "person name is required")
	ErrUnknownCurrency    = newError(ErrValidation, "unknown currency")
	ErrUnknownTxType      = newError(ErrValidation, "unknown transaction type")
	ErrUnknownLoanType    = newError(ErrValidation, "unknown loan type")
	ErrDescriptionTooLong = newError(ErrValidation, "description too long (max 200 characters)")
)

// Error is a ledger error with a message meant for the person using the app.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap returns the error kind.
func (e *Error) Unwrap() error { return e.kind }
