package core

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is one of the wallet currencies the app knows about.
type Currency string

const (
	LKR  Currency = "LKR"
	USDT Currency = "USDT"
	USD  Currency = "USD"
)

// fraction digits shown for every currency
const displayFraction = 2

// largest minor-unit count go-money can format
var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

var formatters = map[Currency]*money.Formatter{
	LKR:  money.NewFormatter(displayFraction, ".", ",", "Rs.", "$ 1"),
	USDT: money.NewFormatter(displayFraction, ".", ",", "USDT", "$ 1"),
	USD:  money.NewFormatter(displayFraction, ".", ",", "$", "$1"),
}

// Currencies returns the known currencies in their canonical display order.
func Currencies() []Currency {
	return []Currency{LKR, USDT, USD}
}

// ParseCurrency converts a currency code (case-insensitive) into a Currency.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrUnknownCurrency
	}
	return c, nil
}

// IsValid reports whether c is a known currency.
func (c Currency) IsValid() bool {
	_, ok := formatters[c]
	return ok
}

func (c Currency) String() string { return string(c) }

// Format renders amount the way the app displays money, e.g. "Rs. 1,000.00",
// "USDT 12.50" or "$50.00". Negative amounts get a leading minus.
func (c Currency) Format(amount decimal.Decimal) string {
	f, ok := formatters[c]
	if !ok {
		f = formatters[LKR]
	}
	minor := amount.Round(displayFraction).Shift(displayFraction)
	if minor.Abs().LessThanOrEqual(maxMinorUnits) {
		return f.Format(minor.IntPart())
	}
	return formatWide(f, minor)
}

// formatWide lays out minor units that overflow an int64 the same way
// f.Format does.
func formatWide(f *money.Formatter, minor decimal.Decimal) string {
	digits := minor.Abs().String()
	whole, frac := digits[:len(digits)-f.Fraction], digits[len(digits)-f.Fraction:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.Thousand)
		}
		b.WriteRune(r)
	}
	s := b.String()
	if f.Fraction > 0 {
		s += f.Decimal + frac
	}
	s = strings.Replace(f.Template, "1", s, 1)
	s = strings.Replace(s, "$", f.Grapheme, 1)
	if minor.IsNegative() {
		s = "-" + s
	}
	return s
}

func (c *Currency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCurrency(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
