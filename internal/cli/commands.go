package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"moneyflow/internal/backend"
	"moneyflow/internal/core"
	"moneyflow/internal/ledger"
)

// App carries what the moneyflow-cli commands share.
type App struct {
	// Open returns the ledger and a function releasing it.
	Open func(ctx context.Context) (*ledger.Book, backend.CleanupFunc, error)
	Out  io.Writer
	Err  io.Writer
	Now  func() time.Time
	// Render turns markdown into terminal output. Nil prints it raw.
	Render func(md string) (string, error)
}

// Commands returns every moneyflow-cli subcommand bound to app.
func Commands(app *App) []subcommands.Command {
	return []subcommands.Command{
		&walletsCmd{app: app},
		&addWalletCmd{app: app},
		&deleteWalletCmd{app: app},
		&addTxCmd{app: app},
		&deleteTxCmd{app: app},
		&txsCmd{app: app},
		&summaryCmd{app: app},
		&categoriesCmd{app: app},
		&loansCmd{app: app},
		&addLoanCmd{app: app},
		&payLoanCmd{app: app},
		&deleteLoanCmd{app: app},
		&exportCmd{app: app},
	}
}

// GlamourRenderer renders markdown for the terminal with glamour.
func GlamourRenderer() func(string) (string, error) {
	return func(md string) (string, error) {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err != nil {
			return "", err
		}
		return r.Render(md)
	}
}

// withBook opens the ledger, runs fn and closes the ledger again.
func (a *App) withBook(ctx context.Context, fn func(*ledger.Book) error) subcommands.ExitStatus {
	book, closeFn, err := a.Open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			fmt.Fprintln(a.Err, "Warning: closing ledger:", err)
		}
	}()
	if err := fn(book); err != nil {
		return a.fail(err)
	}
	return subcommands.ExitSuccess
}

func (a *App) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(a.Err, "Error:", err)
	return subcommands.ExitFailure
}

func (a *App) usage(msg string) subcommands.ExitStatus {
	fmt.Fprintln(a.Err, "Error:", msg)
	return subcommands.ExitUsageError
}

func (a *App) printMarkdown(md string) {
	if a.Render != nil {
		if out, err := a.Render(md); err == nil {
			fmt.Fprint(a.Out, out)
			return
		}
	}
	fmt.Fprint(a.Out, md)
}

// dateOrToday parses s, defaulting to the current day when empty.
func (a *App) dateOrToday(s string) (core.Date, error) {
	if s == "" {
		return core.DateOf(a.Now()), nil
	}
	return core.ParseDate(s)
}

// monthOrCurrent fills unset year and month from the clock.
func (a *App) monthOrCurrent(year, month int) (int, time.Month, error) {
	now := a.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %d", month)
	}
	return year, time.Month(month), nil
}

// oneArg returns the single positional argument or reports a usage error.
func oneArg(f interface{ Args() []string }, what string) (string, error) {
	if len(f.Args()) != 1 {
		return "", fmt.Errorf("expected exactly one %s", what)
	}
	return f.Args()[0], nil
}
