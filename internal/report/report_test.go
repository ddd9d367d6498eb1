package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"moneyflow/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) core.Date { return core.NewDate(y, m, d) }

var (
	cash   = core.Wallet{ID: "w1", Name: "Cash", Currency: core.LKR}
	usd    = core.Wallet{ID: "w2", Name: "USD Account", Currency: core.USD}
	crypto = core.Wallet{ID: "w3", Name: "Binance", Currency: core.USDT}
)

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "t1", Type: core.Income, Amount: dec("1000"), WalletID: cash.ID, Category: "Salary", Date: date(2025, time.January, 20)},
		{ID: "t2", Type: core.Expense, Amount: dec("400"), WalletID: cash.ID, Category: "Food", Date: date(2025, time.January, 5)},
		{ID: "t3", Type: core.Income, Amount: dec("50"), WalletID: usd.ID, Category: "Upwork", Date: date(2025, time.January, 20)},
		{ID: "t4", Type: core.Transfer, Amount: dec("300"), WalletID: cash.ID, ToWalletID: crypto.ID, Date: date(2025, time.January, 10)},
		{ID: "t5", Type: core.Expense, Amount: dec("99"), WalletID: cash.ID, Category: "Rent", Date: date(2025, time.February, 1)},
		{ID: "t6", Type: core.Income, Amount: dec("7"), WalletID: "gone", Date: date(2025, time.January, 2)},
	}
}

func ids(txs []core.Transaction) string {
	var out []string
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return strings.Join(out, ",")
}

func TestFilterByMonth(t *testing.T) {
	got := FilterByMonth(sampleTransactions(), 2025, time.January)
	if ids(got) != "t1,t2,t3,t4,t6" {
		t.Errorf("FilterByMonth = %s", ids(got))
	}
	if got := FilterByMonth(sampleTransactions(), 2024, time.January); len(got) != 0 {
		t.Errorf("other year matched %s", ids(got))
	}
}

func TestFilter_Predicates(t *testing.T) {
	txs := sampleTransactions()
	tests := []struct {
		name  string
		preds []Predicate
		want  string
	}{
		{"no predicates", nil, "t1,t2,t3,t4,t5,t6"},
		{"type", []Predicate{OfType(core.Expense)}, "t2,t5"},
		{"wallet as destination", []Predicate{InvolvesWallet(crypto.ID)}, "t4"},
		{"month and wallet", []Predicate{InMonth(2025, time.January), InvolvesWallet(cash.ID)}, "t1,t2,t4"},
		{"nothing", []Predicate{OfType(core.Transfer), InMonth(2025, time.February)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(Filter(txs, tt.preds...)); got != tt.want {
				t.Errorf("Filter = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSort_Stable(t *testing.T) {
	txs := FilterByMonth(sampleTransactions(), 2025, time.January)

	if got := ids(SortByDateDesc(txs)); got != "t1,t3,t4,t2,t6" {
		t.Errorf("SortByDateDesc = %s", got)
	}
	if got := ids(SortByDateAsc(txs)); got != "t6,t2,t4,t1,t3" {
		t.Errorf("SortByDateAsc = %s", got)
	}
	if ids(txs) != "t1,t2,t3,t4,t6" {
		t.Error("sorting mutated its input")
	}
}

func TestQuery_Apply(t *testing.T) {
	txs := sampleTransactions()
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{"month newest first", Query{Year: 2025, Month: time.January}, "t1,t3,t4,t2,t6"},
		{"limit", Query{Year: 2025, Month: time.January, Limit: 2}, "t1,t3"},
		{"type", Query{Year: 2025, Month: time.January, Type: core.Income}, "t1,t3,t6"},
		{"wallet", Query{Year: 2025, Month: time.January, WalletID: crypto.ID}, "t4"},
		{"all months", Query{}, "t5,t1,t3,t4,t2,t6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(tt.q.Apply(txs)); got != tt.want {
				t.Errorf("Apply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarizeByCurrency(t *testing.T) {
	txs := FilterByMonth(sampleTransactions(), 2025, time.January)
	s := SummarizeByCurrency(txs, []core.Wallet{cash, usd, crypto})

	if !s.Income[core.LKR].Equal(dec("1000")) || !s.Income[core.USD].Equal(dec("50")) {
		t.Errorf("income = %v", s.Income)
	}
	if !s.Expense[core.LKR].Equal(dec("400")) || !s.Expense[core.USDT].IsZero() {
		t.Errorf("expense = %v", s.Expense)
	}

	if got := FormatMultiCurrency(s.Income); got != "Rs. 1,000.00 | $50.00" {
		t.Errorf("income figure = %q", got)
	}
	if got := FormatMultiCurrency(s.Expense); got != "Rs. 400.00" {
		t.Errorf("expense figure = %q", got)
	}

	net := NetBalance(s)
	if !net[core.LKR].Equal(dec("600")) || !net[core.USD].Equal(dec("50")) || !net[core.USDT].IsZero() {
		t.Errorf("net = %v", net)
	}
	if got := FormatNet(net); got != "Rs. 600.00 | $50.00" {
		t.Errorf("net figure = %q", got)
	}
}

func TestFormatMultiCurrency(t *testing.T) {
	tests := []struct {
		name   string
		totals Totals
		want   string
	}{
		{"empty", Totals{}, "Rs. 0.00"},
		{"all zero", Totals{core.LKR: decimal.Zero, core.USD: decimal.Zero}, "Rs. 0.00"},
		{"single usdt", Totals{core.USDT: dec("12.5")}, "USDT 12.50"},
		{"canonical order", Totals{core.USD: dec("1"), core.USDT: dec("2"), core.LKR: dec("3")}, "Rs. 3.00 | USDT 2.00 | $1.00"},
		{"negative dropped", Totals{core.LKR: dec("-5"), core.USD: dec("5")}, "$5.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMultiCurrency(tt.totals); got != tt.want {
				t.Errorf("FormatMultiCurrency = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatNet(t *testing.T) {
	tests := []struct {
		name string
		net  Totals
		want string
	}{
		{"zero", Totals{core.LKR: decimal.Zero}, "Rs. 0.00"},
		{"negative kept", Totals{core.LKR: dec("-600")}, "-Rs. 600.00"},
		{"mixed", Totals{core.LKR: dec("-1"), core.USD: dec("2")}, "-Rs. 1.00 | $2.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNet(tt.net); got != tt.want {
				t.Errorf("FormatNet = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoansByTypeAndOutstanding(t *testing.T) {
	loans := []core.Loan{
		{ID: "l1", Type: core.Given, Amount: dec("100"), Currency: core.LKR, Status: core.Pending, Payments: []core.Payment{{Amount: dec("40")}}},
		{ID: "l2", Type: core.Taken, Amount: dec("10"), Currency: core.USD, Status: core.Pending},
		{ID: "l3", Type: core.Given, Amount: dec("5"), Currency: core.LKR, Status: core.Paid, Payments: []core.Payment{{Amount: dec("5")}}},
	}
	given := LoansByType(loans, core.Given)
	if len(given) != 2 || given[0].ID != "l1" || given[1].ID != "l3" {
		t.Errorf("LoansByType(given) = %+v", given)
	}
	out := Outstanding(loans, core.Given)
	if !out[core.LKR].Equal(dec("60")) {
		t.Errorf("Outstanding(given) = %v", out)
	}
}

func TestCategoryTotals(t *testing.T) {
	txs := []core.Transaction{
		{Type: core.Expense, Amount: dec("10"), WalletID: cash.ID, Category: "Food"},
		{Type: core.Expense, Amount: dec("30"), WalletID: cash.ID, Category: "Rent"},
		{Type: core.Expense, Amount: dec("25"), WalletID: cash.ID, Category: "Food"},
		{Type: core.Expense, Amount: dec("3"), WalletID: usd.ID, Category: "Food"},
		{Type: core.Expense, Amount: dec("1"), WalletID: cash.ID},
		{Type: core.Income, Amount: dec("99"), WalletID: cash.ID, Category: "Salary"},
	}
	got := CategoryTotals(txs, []core.Wallet{cash, usd}, core.Expense)
	if len(got) != 4 {
		t.Fatalf("CategoryTotals = %+v", got)
	}
	if got[0].Category != "Food" || got[0].Currency != core.LKR || !got[0].Amount.Equal(dec("35")) || got[0].Count != 2 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Category != "Rent" {
		t.Errorf("second = %+v", got[1])
	}
	if got[3].Category != "Uncategorized" {
		t.Errorf("last = %+v", got[3])
	}
}

func sampleLedger() Ledger {
	snap := core.Snapshot{
		Wallets:      []core.Wallet{cash, usd, crypto},
		Transactions: sampleTransactions(),
	}
	snap.Transactions[1].Description = "Lunch | with *team*"
	return BuildLedger(snap, 2025, time.January, time.Date(2025, 1, 31, 18, 0, 0, 0, time.UTC))
}

func TestBuildLedger(t *testing.T) {
	l := sampleLedger()

	if l.Period() != "January 2025" {
		t.Errorf("Period = %q", l.Period())
	}
	if l.TotalIncome() != "Rs. 1,000.00 | $50.00" || l.TotalExpense() != "Rs. 400.00" || l.NetBalance() != "Rs. 600.00 | $50.00" {
		t.Errorf("figures = %q / %q / %q", l.TotalIncome(), l.TotalExpense(), l.NetBalance())
	}

	// Binance only received a transfer, so it is not listed.
	if len(l.Wallets) != 2 || l.Wallets[0].Name != "Cash" || l.Wallets[1].Name != "USD Account" {
		t.Fatalf("wallets = %+v", l.Wallets)
	}
	if !l.Wallets[0].Net().Equal(dec("600")) {
		t.Errorf("cash net = %s", l.Wallets[0].Net())
	}

	if len(l.Rows) != 5 {
		t.Fatalf("rows = %d", len(l.Rows))
	}
	first := l.Rows[0]
	if first.WalletName != "-" || first.Currency != core.LKR {
		t.Errorf("row with missing wallet = %+v", first)
	}
	for i := 1; i < len(l.Rows); i++ {
		if l.Rows[i].Date.Before(l.Rows[i-1].Date.Time) {
			t.Fatalf("rows not ascending at %d", i)
		}
	}
	if got := l.Rows[1].SignedAmount(); got != "-Rs. 400.00" {
		t.Errorf("expense amount = %q", got)
	}
	if got := l.Rows[2].SignedAmount(); got != "Rs. 300.00" {
		t.Errorf("transfer amount = %q", got)
	}
}

func TestBuildLedger_EmptyMonth(t *testing.T) {
	l := BuildLedger(core.Snapshot{Wallets: []core.Wallet{cash}}, 2030, time.June, time.Now())
	if l.TotalIncome() != "Rs. 0.00" || l.NetBalance() != "Rs. 0.00" {
		t.Errorf("figures = %q / %q", l.TotalIncome(), l.NetBalance())
	}
	md := Markdown(l)
	if !strings.Contains(md, "No transactions for this month") {
		t.Error("empty ledger should say so")
	}
	if strings.Contains(md, "Wallet Summary") {
		t.Error("empty ledger should not list wallets")
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleLedger())
	for _, want := range []string{
		"# 💰 Money Flow Ledger",
		"**January 2025**",
		"Generated on Friday, January 31, 2025",
		"- **Total Income:** Rs. 1,000.00 | $50.00",
		"- **Net Balance:** Rs. 600.00 | $50.00",
		"| Cash | LKR | +Rs. 1,000.00 | -Rs. 400.00 | Rs. 600.00 |",
		"## 📋 Transaction Details (5 transactions)",
		`Lunch \| with \*team\*`,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML(&buf, sampleLedger()); err != nil {
		t.Fatalf("HTML: %v", err)
	}
	page := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Monthly Ledger - January 2025</title>",
		"<table>",
		"Wallet</th>",
		"Lunch | with *team*",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSX(&buf, sampleLedger()); err != nil {
		t.Fatalf("XLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue("Summary", "B2"); v != "January 2025" {
		t.Errorf("Summary!B2 = %q", v)
	}
	if v, _ := f.GetCellValue("Summary", "B5"); v != "Rs. 1,000.00 | $50.00" {
		t.Errorf("Summary!B5 = %q", v)
	}
	rows, err := f.GetRows("Transactions")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("transaction rows = %d, want 6", len(rows))
	}
	if rows[0][0] != "Date" || rows[2][6] != "-400" {
		t.Errorf("rows = %v", rows)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(2025, time.January, "html"); got != "Money_Flow_Ledger_January_2025.html" {
		t.Errorf("Filename = %q", got)
	}
}
