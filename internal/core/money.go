// Package core provides the domain types of the money flow ledger.
//
// This file contains the parsing of user supplied amounts.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// MaxAmount is the exclusive bound on the magnitude of amounts and
// balances. Totals of bounded amounts stay exact when formatted.
var MaxAmount = decimal.New(1, 15)

// ValidAmount reports whether d is usable as a transaction, loan or payment
// amount: positive and below MaxAmount.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.LessThan(MaxAmount)
}

func withinLimit(d decimal.Decimal) bool {
	return d.Abs().LessThan(MaxAmount)
}

// ParseAmount converts a user supplied decimal string into a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. When both
// appear, commas are treated as thousands separators (1,234.50). A lone comma
// followed by exactly three digits could be either, so it is rejected. Signs,
// zero and values of MaxAmount or more are rejected.
//
// Examples:
//
//	ParseAmount("12.34")    -> 12.34, nil
//	ParseAmount("12,34")    -> 12.34, nil
//	ParseAmount("1,234.50") -> 1234.5, nil
//	ParseAmount("1,000")    -> 0, ErrInvalidAmount
//	ParseAmount("-1")       -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		if i := strings.IndexByte(s, ','); i >= 0 && len(s)-i-1 == 3 {
			return decimal.Zero, ErrInvalidAmount
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !ValidAmount(d) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseBalance is like ParseAmount but allows zero, negative and empty
// values. An empty string is zero. The magnitude must stay below MaxAmount.
func ParseBalance(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if strings.Trim(s, "0.,") == "" {
		return decimal.Zero, nil
	}
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}
