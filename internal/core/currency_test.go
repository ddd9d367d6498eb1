package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrencyFormat(t *testing.T) {
	cases := []struct {
		cur  Currency
		in   string
		want string
	}{
		{LKR, "1000", "Rs. 1,000.00"},
		{LKR, "0", "Rs. 0.00"},
		{USD, "50", "$50.00"},
		{USDT, "1234567.891", "USDT 1,234,567.89"},
		{LKR, "-600", "-Rs. 600.00"},
		{USD, "0.005", "$0.01"},
		{LKR, "92233720368547758.07", "Rs. 92,233,720,368,547,758.07"},
		{LKR, "92233720368547758.08", "Rs. 92,233,720,368,547,758.08"},
		{LKR, "100000000000000000", "Rs. 100,000,000,000,000,000.00"},
		{USDT, "-100000000000000000", "-USDT 100,000,000,000,000,000.00"},
		{USD, "123456789012345678901.5", "$123,456,789,012,345,678,901.50"},
	}
	for _, tc := range cases {
		got := tc.cur.Format(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Errorf("%s.Format(%s) = %q, want %q", tc.cur, tc.in, got, tc.want)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" usdt ")
	if err != nil || c != USDT {
		t.Fatalf("got %q err=%v", c, err)
	}
	if _, err := ParseCurrency("EUR"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
	var w Wallet
	if err := json.Unmarshal([]byte(`{"currency":"GBP"}`), &w); err == nil {
		t.Fatalf("unknown currency must be rejected when decoding")
	}
}

func TestCurrenciesOrder(t *testing.T) {
	got := Currencies()
	if len(got) != 3 || got[0] != LKR || got[1] != USDT || got[2] != USD {
		t.Fatalf("unexpected order %v", got)
	}
}
