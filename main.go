package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cyanbot/cmd"
	"cyanbot/config"
	"cyanbot/database"
	"cyanbot/events"
	"cyanbot/service"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const usage = `usage:
  cyanbot                                   run the bot
  cyanbot migrate [up|down [steps]|status]  manage the schema
  cyanbot codes create <value> <uses> [code] create a redemption code
  cyanbot balance set <user_id> <amount>    overwrite a balance
  cyanbot paytable [spins]                  print slots and coinflip odds`

// cliActor is recorded as the actor for command line adjustments
const cliActor = "cli"

func main() {
	if len(os.Args) > 1 {
		if err := runSubcommand(os.Args[1:]); err != nil {
			log.Fatalf("%s error: %v", os.Args[1], err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func runSubcommand(args []string) error {
	switch args[0] {
	case "migrate":
		return handleMigrationCommand(args[1:])
	case "codes":
		return handleCodesCommand(args[1:])
	case "balance":
		return handleBalanceCommand(args[1:])
	case "paytable":
		return handlePaytableCommand(args[1:])
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

// migrationURL reads only the database settings so migrations run without a bot token
func migrationURL() (string, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}
	base := os.Getenv("DATABASE_URL")
	if base == "" {
		return "", fmt.Errorf("DATABASE_URL is required")
	}
	return database.ConstructDatabaseURL(base, os.Getenv("DATABASE_NAME")), nil
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cyanbot migrate [up|down|status] [args...]")
	}

	url, err := migrationURL()
	if err != nil {
		return err
	}

	switch args[0] {
	case "up":
		return database.MigrateUp(url)
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(url, steps)
	case "status":
		return database.MigrateStatus(url)
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}

// withLedger opens a ledger for a one-off administrative command
func withLedger(fn func(ctx context.Context, ledger service.LedgerService) error) error {
	cfg := config.Get()
	cmd.ConfigureLogging(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eventBus := events.NewBus()
	ledger, db, err := cmd.NewLedger(ctx, cfg, eventBus)
	if err != nil {
		return err
	}
	defer db.Close()
	defer eventBus.Wait()

	return fn(ctx, ledger)
}

func handleCodesCommand(args []string) error {
	if len(args) < 3 || args[0] != "create" {
		return fmt.Errorf("usage: cyanbot codes create <value> <uses> [code]")
	}

	value, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}
	uses, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid uses %q: %w", args[2], err)
	}
	code := ""
	if len(args) > 3 {
		code = args[3]
	}

	return withLedger(func(ctx context.Context, ledger service.LedgerService) error {
		created, err := ledger.CreateCode(ctx, cliActor, code, value, uses)
		if err != nil {
			return err
		}
		fmt.Printf("Created code %s worth %d with %d uses\n", created.Code, created.Value, created.MaxUses)
		return nil
	})
}

func handleBalanceCommand(args []string) error {
	if len(args) < 3 || args[0] != "set" {
		return fmt.Errorf("usage: cyanbot balance set <user_id> <amount>")
	}

	userID := args[1]
	amount, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[2], err)
	}

	return withLedger(func(ctx context.Context, ledger service.LedgerService) error {
		history, err := ledger.SetBalance(ctx, cliActor, userID, amount)
		if err != nil {
			return err
		}
		fmt.Printf("Balance of %s: %d -> %d\n", userID, history.BalanceBefore, history.BalanceAfter)
		return nil
	})
}

func handlePaytableCommand(args []string) error {
	spins := 100000
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid spin count %q", args[0])
		}
		spins = n
	}

	cfg := config.Get()
	ledgerCfg := cfg.LedgerConfig()
	paytable := ledgerCfg.Paytable
	if err := paytable.Validate(); err != nil {
		return err
	}

	odds := paytable.Odds()
	fmt.Printf("Slots (triple x%d, pair x%d)\n", paytable.TripleMultiplier, paytable.PairMultiplier)
	fmt.Printf("  triple: %6.2f%%\n", odds.TripleChance*100)
	fmt.Printf("  pair:   %6.2f%%\n", odds.PairChance*100)
	fmt.Printf("  miss:   %6.2f%%\n", odds.MissChance*100)
	fmt.Printf("  expected return: %.4f per unit staked\n", odds.ExpectedReturn)

	if spins > 0 {
		report := paytable.Simulate(service.NewLockedRand(cfg.RandomSeed), spins)
		fmt.Printf("Simulated %d spins: return %.4f, chi-squared %.2f (%d symbols)\n",
			report.Spins, report.ReturnToPlayer, report.ChiSquared, len(paytable.Symbols))
	}

	fmt.Printf("Coinflip (x%d): expected return %.4f per unit staked\n",
		ledgerCfg.CoinflipMultiplier, service.CoinflipReturn(ledgerCfg.CoinflipMultiplier))
	return nil
}
