package main

import (
	"context"
	"fmt"
	"log/slog"

	"token-flow-lab/internal/config"
	"token-flow-lab/internal/storage"
	chstore "token-flow-lab/internal/storage/clickhouse"
	"token-flow-lab/internal/storage/memory"
	pgstore "token-flow-lab/internal/storage/postgres"
)

// ledger holds the opened stores and the connections behind them.
type ledger struct {
	transfers storage.TransferStore
	accounts  storage.AccountStore
	closers   []func()
}

func openLedger(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ledger, error) {
	l := &ledger{}

	var pool *pgstore.Pool
	if cfg.Storage.Accounts == config.BackendPostgres || cfg.Storage.Transfers == config.BackendPostgres {
		p, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN, cfg.Storage.PostgresMaxConns)
		if err != nil {
			return nil, err
		}
		pool = p
		l.closers = append(l.closers, pool.Close)
	}

	switch cfg.Storage.Accounts {
	case config.BackendMemory:
		l.accounts = memory.NewAccountStore()
	case config.BackendPostgres:
		l.accounts = pgstore.NewAccountStore(pool)
	default:
		l.Close()
		return nil, fmt.Errorf("unknown accounts backend %q", cfg.Storage.Accounts)
	}

	switch cfg.Storage.Transfers {
	case config.BackendMemory:
		l.transfers = memory.NewTransferStore()
	case config.BackendPostgres:
		l.transfers = pgstore.NewTransferStore(pool)
	case config.BackendClickhouse:
		conn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			l.Close()
			return nil, err
		}
		l.closers = append(l.closers, func() {
			if err := conn.Close(); err != nil {
				log.Warn("close clickhouse", "error", err)
			}
		})
		l.transfers = chstore.NewTransferStore(conn)
	default:
		l.Close()
		return nil, fmt.Errorf("unknown transfers backend %q", cfg.Storage.Transfers)
	}

	log.Debug("ledger opened", "accounts", cfg.Storage.Accounts, "transfers", cfg.Storage.Transfers)
	return l, nil
}

// Close releases connections in reverse opening order.
func (l *ledger) Close() {
	for i := len(l.closers) - 1; i >= 0; i-- {
		l.closers[i]()
	}
	l.closers = nil
}
