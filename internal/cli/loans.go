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

type loansCmd struct {
	app *App
	typ string
}

func (*loansCmd) Name() string     { return "loans" }
func (*loansCmd) Synopsis() string { return "list loans with repayment progress" }
func (*loansCmd) Usage() string {
	return `moneyflow-cli loans [-t <given|taken>]
`
}

func (c *loansCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "t", "", "Only this loan type: given or taken.")
}

func (c *loansCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var types []core.LoanType
	if c.typ == "" {
		types = []core.LoanType{core.Given, core.Taken}
	} else {
		t, err := core.ParseLoanType(c.typ)
		if err != nil {
			return c.app.usage(err.Error())
		}
		types = []core.LoanType{t}
	}

	return c.app.withBook(ctx, func(b *ledger.Book) error {
		loans := b.Loans()
		for _, t := range types {
			title := "Loans Given"
			if t == core.Taken {
				title = "Loans Taken"
			}
			c.app.printMarkdown(report.LoansMarkdown(title, report.LoansByType(loans, t)))
		}
		return nil
	})
}

type addLoanCmd struct {
	app      *App
	typ      string
	person   string
	amount   string
	currency string
	date     string
	due      string
	note     string
}

func (*addLoanCmd) Name() string     { return "add-loan" }
func (*addLoanCmd) Synopsis() string { return "record money lent or borrowed" }
func (*addLoanCmd) Usage() string {
	return `moneyflow-cli add-loan -t <given|taken> -p <person> -a <amount> [-c <currency>] [-d <YYYY-MM-DD>] [-due <YYYY-MM-DD>] [-note <text>]
`
}

func (c *addLoanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "t", "given", "Loan type: given or taken.")
	f.StringVar(&c.person, "p", "", "Person name.")
	f.StringVar(&c.amount, "a", "", "Amount.")
	f.StringVar(&c.currency, "c", "LKR", "Currency: LKR, USDT or USD.")
	f.StringVar(&c.date, "d", "", "Loan date, defaults to today.")
	f.StringVar(&c.due, "due", "", "Optional due date.")
	f.StringVar(&c.note, "note", "", "Optional note.")
}

func (c *addLoanCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	typ, err := core.ParseLoanType(c.typ)
	if err != nil {
		return c.app.usage(err.Error())
	}
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		return c.app.usage(err.Error())
	}
	currency, err := core.ParseCurrency(c.currency)
	if err != nil {
		return c.app.usage(err.Error())
	}
	date, err := c.app.dateOrToday(c.date)
	if err != nil {
		return c.app.usage(err.Error())
	}
	var due *core.Date
	if c.due != "" {
		d, err := core.ParseDate(c.due)
		if err != nil {
			return c.app.usage(err.Error())
		}
		due = &d
	}

	return c.app.withBook(ctx, func(b *ledger.Book) error {
		l, err := b.CreateLoan(ctx, core.LoanInput{
			Type:       typ,
			PersonName: c.person,
			Amount:     amount,
			Currency:   currency,
			Date:       date,
			DueDate:    due,
			Note:       c.note,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.Out, "Recorded loan %s with %s: %s\n", l.ID, l.PersonName, l.Currency.Format(l.Amount))
		return nil
	})
}

type payLoanCmd struct {
	app    *App
	amount string
	date   string
}

func (*payLoanCmd) Name() string     { return "pay-loan" }
func (*payLoanCmd) Synopsis() string { return "add a payment to a loan" }
func (*payLoanCmd) Usage() string {
	return `moneyflow-cli pay-loan -a <amount> [-d <YYYY-MM-DD>] <loan id>
`
}

func (c *payLoanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Payment amount.")
	f.StringVar(&c.date, "d", "", "Payment date, defaults to today.")
}

func (c *payLoanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "loan id")
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

	return c.app.withBook(ctx, func(b *ledger.Book) error {
		if err := b.AddPayment(ctx, id, amount, date); err != nil {
			return err
		}
		l, ok := b.Loan(id)
		if !ok {
			return core.ErrLoanNotFound
		}
		fmt.Fprintf(c.app.Out, "Payment recorded. Remaining %s (%s)\n", l.Currency.Format(l.Remaining()), l.Status)
		return nil
	})
}

type deleteLoanCmd struct{ app *App }

func (*deleteLoanCmd) Name() string     { return "delete-loan" }
func (*deleteLoanCmd) Synopsis() string { return "delete a loan and its payments" }
func (*deleteLoanCmd) Usage() string {
	return `moneyflow-cli delete-loan <loan id>
`
}
func (*deleteLoanCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteLoanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "loan id")
	if err != nil {
		return c.app.usage(err.Error())
	}
	return c.app.withBook(ctx, func(b *ledger.Book) error {
		if err := b.DeleteLoan(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(c.app.Out, "Deleted loan", id)
		return nil
	})
}
