package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"moneyflow/internal/core"
	"moneyflow/internal/ledger"
	"moneyflow/internal/report"
)

type summaryCmd struct {
	app   *App
	year  int
	month int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show income, expenses and net balance for a month" }
func (*summaryCmd) Usage() string {
	return `moneyflow-cli summary [-y <year>] [-m <month>]
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", 0, "Year, defaults to the current one.")
	f.IntVar(&c.month, "m", 0, "Month 1-12, defaults to the current one.")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	year, month, err := c.app.monthOrCurrent(c.year, c.month)
	if err != nil {
		return c.app.usage(err.Error())
	}
	return c.app.withBook(ctx, func(b *ledger.Book) error {
		snap := b.Snapshot()
		txs := report.FilterByMonth(snap.Transactions, year, month)
		sum := report.SummarizeByCurrency(txs, snap.Wallets)
		c.app.printMarkdown(report.SummaryMarkdown(year, month, sum,
			report.CategoryTotals(txs, snap.Wallets, core.Expense)))
		return nil
	})
}

type categoriesCmd struct {
	app *App
	typ string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list suggested categories" }
func (*categoriesCmd) Usage() string {
	return `moneyflow-cli categories [-t <income|expense>]
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "t", "expense", "Transaction type.")
}

func (c *categoriesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := core.ParseTransactionType(c.typ)
	if err != nil {
		return c.app.usage(err.Error())
	}
	for _, cat := range core.Categories(t) {
		fmt.Fprintln(c.app.Out, cat)
	}
	return subcommands.ExitSuccess
}

type exportCmd struct {
	app    *App
	year   int
	month  int
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the monthly ledger as html, md or xlsx" }
func (*exportCmd) Usage() string {
	return `moneyflow-cli export [-y <year>] [-m <month>] [-f <html|md|xlsx>] [-o <file>]

  Writes the ledger of a month. The file name defaults to Money_Flow_Ledger_<Month>_<Year>.<format>.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", 0, "Year, defaults to the current one.")
	f.IntVar(&c.month, "m", 0, "Month 1-12, defaults to the current one.")
	f.StringVar(&c.format, "f", "html", "Format: html, md or xlsx.")
	f.StringVar(&c.output, "o", "", "Output file.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	year, month, err := c.app.monthOrCurrent(c.year, c.month)
	if err != nil {
		return c.app.usage(err.Error())
	}
	format := strings.ToLower(c.format)
	switch format {
	case "html", "md", "xlsx":
	default:
		return c.app.usage(fmt.Sprintf("unknown format %q (want html, md or xlsx)", c.format))
	}
	path := c.output
	if path == "" {
		path = report.Filename(year, month, format)
	}

	return c.app.withBook(ctx, func(b *ledger.Book) error {
		l := report.BuildLedger(b.Snapshot(), year, month, c.app.Now())

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		switch format {
		case "html":
			err = report.HTML(f, l)
		case "md":
			_, err = f.WriteString(report.Markdown(l))
		case "xlsx":
			err = report.XLSX(f, l)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(c.app.Out, "Wrote %s (%d transactions)\n", path, len(l.Rows))
		return nil
	})
}
