package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"loanbook/internal/adapter/cli"
	"loanbook/internal/adapter/gateway"
	"loanbook/internal/adapter/mirror"
	"loanbook/internal/adapter/repository/mysql"
	"loanbook/internal/config"
	domain "loanbook/internal/domain/loan"
	"loanbook/internal/infrastructure/db"
	"loanbook/internal/usecase/loan"
	"loanbook/internal/usecase/reconcile"
	"loanbook/pkg/id"
	"loanbook/pkg/logging"
)

func main() {
	config.LoadDotenv()
	cfg := config.Load()
	log := logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(opener(cfg, log), os.Stdin, os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// opener wires one session: mirror on a local SQLite file, gateway when
// GATEWAY_URL is set, and a store that reads the clock in APP_TIMEZONE.
func opener(cfg *config.Config, log *slog.Logger) cli.Opener {
	return func(ctx context.Context) (*cli.Deps, error) {
		if err := cfg.ValidateClient(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}

		gdb, err := db.OpenSQLite(cfg.MirrorPath)
		if err != nil {
			return nil, fmt.Errorf("open mirror: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		repo := mysql.NewDocumentRepository(gdb)
		if err := repo.AutoMigrate(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("migrate mirror: %w", err)
		}

		var remote reconcile.Remote
		if cfg.GatewayURL != "" {
			remote = gateway.New(cfg.GatewayURL, cfg.GatewayTimeout())
		} else {
			log.Info("no GATEWAY_URL, working offline")
		}
		sync := reconcile.New(remote, mirror.New(repo, cfg.DocumentName), log)

		amounts := domain.NewAmountFormatter(cfg.AmountLocale, cfg.Currency)
		store := loan.NewStore(nil,
			loan.WithLocation(loc),
			loan.WithIDs(id.NewGenerator(time.Now)),
			loan.WithFormatter(amounts),
		)
		session := loan.NewUsecase(store, sync)
		if err := session.Open(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}

		return &cli.Deps{
			Loans:   session,
			Amounts: amounts,
			Pending: sync.Pending,
			Close:   sqlDB.Close,
		}, nil
	}
}
