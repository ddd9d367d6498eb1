package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"moneyflow/internal/core"
	"moneyflow/internal/ledger"
	"moneyflow/internal/report"
)

type addTxCmd struct {
	app         *App
	typ         string
	wallet      string
	to          string
	amount      string
	category    string
	description string
	date        string
}

func (*addTxCmd) Name() string     { return "add-tx" }
func (*addTxCmd) Synopsis() string { return "record an income, expense or transfer" }
func (*addTxCmd) Usage() string {
	return `moneyflow-cli add-tx -t <income|expense|transfer> -w <wallet id> [-to <wallet id>] -a <amount> [-cat <category>] [-desc <text>] [-d <YYYY-MM-DD>]

  Records a transaction and updates the wallet balances. The date defaults to today.
`
}

func (c *addTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "t", "expense", "Transaction type: income, expense or transfer.")
	f.StringVar(&c.wallet, "w", "", "Wallet id (source wallet for transfers).")
	f.StringVar(&c.to, "to", "", "Destination wallet id, transfers only.")
	f.StringVar(&c.amount, "a", "", "Amount, e.g. 1250.50 or 1250,50. Write 1,250.00 for thousands; 1,250 is ambiguous and rejected.")
	f.StringVar(&c.category, "cat", "", "Category.")
	f.StringVar(&c.description, "desc", "", "Description.")
	f.StringVar(&c.date, "d", "", "Date (YYYY-MM-DD).")
}

func (c *addTxCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	typ, err := core.ParseTransactionType(c.typ)
	if err != nil {
		return c.app.usage(err.Error())
	}
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		return c.app.usage(err.Error())
	}
	date, err := c.app.dateOrToday(c.date)
	if err != nil {
		return c.app.usage(err.Error())
	}
	in, err := core.NewTransactionInput(typ, c.wallet, c.to, amount, c.category, c.description, date)
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		return c.app.usage(err.Error())
	}

	return c.app.withBook(ctx, func(b *ledger.Book) error {
		tx, err := b.CreateTransaction(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.Out, "Recorded %s %s (%s)\n", tx.Type, tx.Amount.StringFixed(2), tx.ID)
		return nil
	})
}

type deleteTxCmd struct{ app *App }

func (*deleteTxCmd) Name() string     { return "delete-tx" }
func (*deleteTxCmd) Synopsis() string { return "delete a transaction and reverse its effect" }
func (*deleteTxCmd) Usage() string {
	return `moneyflow-cli delete-tx <transaction id>
`
}
func (*deleteTxCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "transaction id")
	if err != nil {
		return c.app.usage(err.Error())
	}
	return c.app.withBook(ctx, func(b *ledger.Book) error {
		if err := b.DeleteTransaction(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(c.app.Out, "Deleted transaction", id)
		return nil
	})
}

type txsCmd struct {
	app    *App
	year   int
	month  int
	all    bool
	typ    string
	wallet string
	limit  int
}

func (*txsCmd) Name() string     { return "txs" }
func (*txsCmd) Synopsis() string { return "list transactions, newest first" }
func (*txsCmd) Usage() string {
	return `moneyflow-cli txs [-y <year>] [-m <month>] [-all] [-t <type>] [-w <wallet id>] [-n <limit>]

  Lists the transactions of a month (the current one by default), newest first.
`
}

func (c *txsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", 0, "Year, defaults to the current one.")
	f.IntVar(&c.month, "m", 0, "Month 1-12, defaults to the current one.")
	f.BoolVar(&c.all, "all", false, "List every month.")
	f.StringVar(&c.typ, "t", "", "Only this type: income, expense or transfer.")
	f.StringVar(&c.wallet, "w", "", "Only transactions touching this wallet id.")
	f.IntVar(&c.limit, "n", 0, "Show at most n transactions.")
}

func (c *txsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q := report.Query{WalletID: c.wallet, Limit: c.limit}
	title := "All Transactions"
	if !c.all {
		year, month, err := c.app.monthOrCurrent(c.year, c.month)
		if err != nil {
			return c.app.usage(err.Error())
		}
		q.Year, q.Month = year, month
		title = fmt.Sprintf("Transactions for %s %d", month, year)
	}
	if c.typ != "" {
		t, err := core.ParseTransactionType(c.typ)
		if err != nil {
			return c.app.usage(err.Error())
		}
		q.Type = t
	}

	return c.app.withBook(ctx, func(b *ledger.Book) error {
		snap := b.Snapshot()
		c.app.printMarkdown(report.TransactionsMarkdown(title, q.Apply(snap.Transactions), snap.Wallets))
		return nil
	})
}
