// Command walletcore is the wallet core CLI entry point. It loads
// configuration, validates it, wires dependencies, and dispatches to one of
// the wallet subcommands.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nocdem/dna-messenger/walletcore/internal/app"
	"github.com/nocdem/dna-messenger/walletcore/internal/config"
	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: walletcore [-config path] <command> [args...]

commands:
  derive-wallet    -chain <name> -name <label> -mnemonic <phrase> -out <path>
  balance          -chain <name> -addr <address> [-token <symbol>]
  send             -chain <name> -from <address> -to <address> -amount <decimal> [-token <symbol>] -privkey <hex> [-speed slow|normal|fast]
  send-from-wallet -chain <name> -wallet <path> -to <address> -amount <decimal> [-token <symbol>] [-net <name>] [-speed slow|normal|fast]
  tx-status        -chain <name> -hash <txhash>
  validate-address -chain <name> -addr <address>
  history          -chain <name> -addr <address> [-token <symbol>]
  archive          -before <RFC3339 timestamp>`)
}

func main() {
	configPath := flag.String("config", "config.toml", "path to configuration file")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	command, rest := args[0], args[1:]

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("path", *configPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, logger)
	defer application.Close()

	if err := run(ctx, application, command, rest); err != nil {
		if err == context.Canceled {
			logger.Info("command cancelled")
			return
		}
		logger.Error("command failed", slog.String("command", command), slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(ctx context.Context, application *app.App, command string, args []string) error {
	// derive-wallet needs no wired dependencies (no network/store access),
	// everything else does.
	if command == "derive-wallet" {
		fs := flag.NewFlagSet("derive-wallet", flag.ExitOnError)
		chain := fs.String("chain", "", "chain name (cellframe, ethereum)")
		name := fs.String("name", "", "wallet label")
		mnemonic := fs.String("mnemonic", "", "mnemonic phrase")
		out := fs.String("out", "", "output file path")
		if err := fs.Parse(args); err != nil {
			return err
		}
		addr, err := application.DeriveWallet(ctx, *chain, *name, *mnemonic, *out)
		if err != nil {
			return err
		}
		if addr != "" {
			fmt.Println(addr)
		}
		return nil
	}

	deps, err := application.Wire(ctx)
	if err != nil {
		return fmt.Errorf("wire dependencies: %w", err)
	}

	switch command {
	case "balance":
		fs := flag.NewFlagSet("balance", flag.ExitOnError)
		chain := fs.String("chain", "", "chain name")
		addr := fs.String("addr", "", "address")
		token := fs.String("token", "", "token symbol (native if empty)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		bal, err := application.Balance(ctx, deps, *chain, *addr, *token)
		if err != nil {
			return err
		}
		fmt.Println(bal)
		return nil

	case "send":
		fs := flag.NewFlagSet("send", flag.ExitOnError)
		chain := fs.String("chain", "", "chain name")
		from := fs.String("from", "", "sender address")
		to := fs.String("to", "", "recipient address")
		amount := fs.String("amount", "", "decimal amount")
		token := fs.String("token", "", "token symbol (native if empty)")
		privKeyHex := fs.String("privkey", "", "raw private key, hex-encoded")
		speed := fs.String("speed", "normal", "slow, normal, or fast")
		if err := fs.Parse(args); err != nil {
			return err
		}
		privKey, err := hex.DecodeString(*privKeyHex)
		if err != nil {
			return fmt.Errorf("%w: malformed -privkey", domain.ErrInvalidInput)
		}
		hash, err := application.Send(ctx, deps, *chain, *from, *to, *amount, *token, privKey, domain.Speed(*speed))
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil

	case "send-from-wallet":
		fs := flag.NewFlagSet("send-from-wallet", flag.ExitOnError)
		chain := fs.String("chain", "", "chain name")
		wallet := fs.String("wallet", "", "wallet container path")
		to := fs.String("to", "", "recipient address")
		amount := fs.String("amount", "", "decimal amount")
		token := fs.String("token", "", "token symbol (native if empty)")
		net := fs.String("net", "", "network name")
		speed := fs.String("speed", "normal", "slow, normal, or fast")
		if err := fs.Parse(args); err != nil {
			return err
		}
		hash, err := application.SendFromWallet(ctx, deps, *chain, *wallet, *to, *amount, *token, *net, domain.Speed(*speed))
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil

	case "tx-status":
		fs := flag.NewFlagSet("tx-status", flag.ExitOnError)
		chain := fs.String("chain", "", "chain name")
		hash := fs.String("hash", "", "transaction hash")
		if err := fs.Parse(args); err != nil {
			return err
		}
		status, err := application.TxStatus(ctx, deps, *chain, *hash)
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil

	case "validate-address":
		fs := flag.NewFlagSet("validate-address", flag.ExitOnError)
		chain := fs.String("chain", "", "chain name")
		addr := fs.String("addr", "", "address")
		if err := fs.Parse(args); err != nil {
			return err
		}
		ok, err := application.ValidateAddress(deps, *chain, *addr)
		if err != nil {
			return err
		}
		fmt.Println(ok)
		return nil

	case "history":
		fs := flag.NewFlagSet("history", flag.ExitOnError)
		chain := fs.String("chain", "", "chain name")
		addr := fs.String("addr", "", "address")
		token := fs.String("token", "", "token symbol (all if empty)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		entries, err := application.History(ctx, deps, *chain, *addr, *token)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s\t%s\t%d\t%s %s\t%s\n", e.Hash, e.Status, e.Timestamp, e.Amount, e.Token, e.OtherAddress)
		}
		return nil

	case "archive":
		fs := flag.NewFlagSet("archive", flag.ExitOnError)
		before := fs.String("before", "", "archive TxRecords older than this RFC3339 timestamp")
		if err := fs.Parse(args); err != nil {
			return err
		}
		cutoff, err := time.Parse(time.RFC3339, *before)
		if err != nil {
			return fmt.Errorf("%w: malformed -before: %v", domain.ErrInvalidInput, err)
		}
		count, err := application.Archive(ctx, deps, cutoff)
		if err != nil {
			return err
		}
		fmt.Println(count)
		return nil

	default:
		usage()
		return fmt.Errorf("%w: unknown command %q", domain.ErrInvalidInput, command)
	}
}
