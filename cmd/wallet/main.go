// Command wallet is a thin command-line front end over the ledger: it
// loads the snapshot, applies one operation, and saves. All decision
// logic lives in the internal packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"shamsi-wallet/config"
	"shamsi-wallet/internal/adapter/storage/file"
	pgStorage "shamsi-wallet/internal/adapter/storage/postgres"
	redisStorage "shamsi-wallet/internal/adapter/storage/redis"
	"shamsi-wallet/internal/app"
	"shamsi-wallet/internal/core/ports"
	"shamsi-wallet/internal/ledger"
	"shamsi-wallet/pkg/logger"
	"shamsi-wallet/pkg/shamsi"

	"github.com/rs/zerolog"
)

const usage = `Usage: wallet <command> [args]

Commands:
  list                          show all wallets and the total balance
  create <name>                 create a wallet
  delete <id>                   delete a wallet and its transactions
  deposit <id> <amount>         deposit an amount (minor units)
  withdraw <id> <amount>        withdraw an amount (minor units)
  settings <id> [flags]         update wallet name and/or annual rate
  history <id>                  show a wallet's transactions, newest first
  project <id>                  forecast profit up to the next trigger date
  accrue                        run the monthly accrual for every wallet
  export <path>                 write the ledger snapshot to a file
  import <path>                 replace the ledger from a snapshot file
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(os.Getenv("SWL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx := context.Background()
	storage, cleanup, err := newStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize snapshot storage")
	}
	defer cleanup()

	a := app.New(storage, cfg.Profit.DefaultAnnualRate, log)
	if err := a.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("persisting catch-up results failed")
	}

	if err := run(ctx, a, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, command string, args []string) error {
	switch command {
	case "list":
		return list(a)
	case "create":
		if len(args) != 1 {
			return fmt.Errorf("usage: wallet create <name>")
		}
		w, err := a.Store.CreateWallet(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("created wallet %s (%s)\n", w.Name, w.ID)
		return a.Save(ctx)
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: wallet delete <id>")
		}
		if err := a.Store.DeleteWallet(args[0]); err != nil {
			return err
		}
		return a.Save(ctx)
	case "deposit", "withdraw":
		if len(args) != 2 {
			return fmt.Errorf("usage: wallet %s <id> <amount>", command)
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		if command == "deposit" {
			_, err = a.Store.Deposit(args[0], amount)
		} else {
			_, err = a.Store.Withdraw(args[0], amount)
		}
		if err != nil {
			return err
		}
		return a.Save(ctx)
	case "settings":
		return settings(ctx, a, args)
	case "history":
		if len(args) != 1 {
			return fmt.Errorf("usage: wallet history <id>")
		}
		return history(a, args[0])
	case "project":
		if len(args) != 1 {
			return fmt.Errorf("usage: wallet project <id>")
		}
		amount, err := a.Engine.Project(args[0], time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("projected profit until %s: %d\n",
			shamsi.Format(shamsi.NextTrigger(time.Now())), amount)
		return nil
	case "accrue":
		return accrue(ctx, a)
	case "export":
		if len(args) != 1 {
			return fmt.Errorf("usage: wallet export <path>")
		}
		data, err := a.Export()
		if err != nil {
			return err
		}
		return os.WriteFile(args[0], data, 0o600)
	case "import":
		if len(args) != 1 {
			return fmt.Errorf("usage: wallet import <path>")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return a.Import(ctx, data)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func list(a *app.App) error {
	for _, w := range a.Store.Wallets() {
		fmt.Printf("%s  %-20s  balance=%d  rate=%.2f%%  created %s\n",
			w.ID, w.Name, w.Balance, w.EffectiveRate()*100, shamsi.Format(w.CreatedAt))
	}
	fmt.Printf("total: %d\n", a.Store.TotalBalance())
	return nil
}

func history(a *app.App, id string) error {
	if _, err := a.Store.Wallet(id); err != nil {
		return err
	}
	for _, tx := range a.Store.WalletTransactions(id) {
		desc := tx.Description
		if desc != "" {
			desc = "  (" + desc + ")"
		}
		fmt.Printf("%s  %-8s  %+d%s\n", shamsi.Format(tx.Timestamp), tx.Type, tx.Amount, desc)
	}
	return nil
}

func settings(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	name := fs.String("name", "", "new wallet name")
	rate := fs.Float64("rate", 0, "new annual profit rate, e.g. 0.24")
	if len(args) < 1 {
		return fmt.Errorf("usage: wallet settings <id> [-name N] [-rate R]")
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var set ledger.Settings
	if *name != "" {
		set.Name = name
	}
	if *rate != 0 {
		set.AnnualProfitRate = rate
	}
	if err := a.Store.UpdateSettings(args[0], set); err != nil {
		return err
	}
	return a.Save(ctx)
}

func accrue(ctx context.Context, a *app.App) error {
	now := time.Now()
	if !shamsi.IsTriggerDay(now) {
		fmt.Printf("note: today (%s) is not the 15th of the Shamsi month\n", shamsi.Format(now))
	}
	for _, w := range a.Store.Wallets() {
		tx, err := a.Engine.Accrue(w.ID, now)
		if err != nil {
			return err
		}
		fmt.Printf("%s: profit %d\n", w.Name, tx.Amount)
	}
	return a.Save(ctx)
}

// parseAmount reads a whole amount in minor currency units. Signs,
// fractions, and anything non-numeric are rejected here so the core only
// ever sees well-formed integers.
func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("amount must be a positive whole number, got %q", s)
	}
	return amount, nil
}

func newStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SnapshotStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return file.NewSnapshotStore(cfg.Storage.Path, log), func() {}, nil
	case config.BackendRedis:
		client, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return nil, nil, err
		}
		return redisStorage.NewSnapshotStore(client, cfg.Redis.Key), func() { client.Close() }, nil
	case config.BackendPostgres:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		return pgStorage.NewSnapshotStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
