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

type walletsCmd struct{ app *App }

func (*walletsCmd) Name() string     { return "wallets" }
func (*walletsCmd) Synopsis() string { return "list wallets and balances" }
func (*walletsCmd) Usage() string {
	return `moneyflow-cli wallets

  Lists every wallet with its current balance.
`
}
func (*walletsCmd) SetFlags(*flag.FlagSet) {}

func (c *walletsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.withBook(ctx, func(b *ledger.Book) error {
		c.app.printMarkdown(report.WalletsMarkdown(b.Wallets()))
		return nil
	})
}

type addWalletCmd struct {
	app      *App
	name     string
	currency string
	balance  string
}

func (*addWalletCmd) Name() string     { return "add-wallet" }
func (*addWalletCmd) Synopsis() string { return "create a wallet" }
func (*addWalletCmd) Usage() string {
	return `moneyflow-cli add-wallet -name <name> -c <LKR|USDT|USD> [-b <opening balance>]
`
}

func (c *addWalletCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Wallet name.")
	f.StringVar(&c.currency, "c", "LKR", "Currency: LKR, USDT or USD.")
	f.StringVar(&c.balance, "b", "", "Opening balance, may be zero or negative.")
}

func (c *addWalletCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	currency, err := core.ParseCurrency(c.currency)
	if err != nil {
		return c.app.usage(err.Error())
	}
	balance, err := core.ParseBalance(c.balance)
	if err != nil {
		return c.app.usage(err.Error())
	}
	return c.app.withBook(ctx, func(b *ledger.Book) error {
		w, err := b.CreateWallet(ctx, c.name, currency, balance)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.Out, "Created wallet %s (%s) %s\n", w.Name, w.ID, w.Currency.Format(w.Balance))
		return nil
	})
}

type deleteWalletCmd struct{ app *App }

func (*deleteWalletCmd) Name() string     { return "delete-wallet" }
func (*deleteWalletCmd) Synopsis() string { return "delete a wallet without transactions" }
func (*deleteWalletCmd) Usage() string {
	return `moneyflow-cli delete-wallet <wallet id>
`
}
func (*deleteWalletCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteWalletCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "wallet id")
	if err != nil {
		return c.app.usage(err.Error())
	}
	return c.app.withBook(ctx, func(b *ledger.Book) error {
		if err := b.DeleteWallet(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(c.app.Out, "Deleted wallet", id)
		return nil
	})
}
