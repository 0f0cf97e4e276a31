package main

import (
	"errors"

	"github.com/spf13/cobra"

	"token-flow-lab/internal/config"
	"token-flow-lab/internal/storage/migrations"
	pgstore "token-flow-lab/internal/storage/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations to the configured stores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.validate(); err != nil {
				return err
			}
			cfg, log := a.cfg, a.log
			ctx := cmd.Context()

			ran := false
			if cfg.Storage.Accounts == config.BackendPostgres || cfg.Storage.Transfers == config.BackendPostgres {
				pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN, cfg.Storage.PostgresMaxConns)
				if err != nil {
					return err
				}
				defer pool.Close()

				applied, err := migrations.RunPostgresMigrations(ctx, pool)
				if err != nil {
					return err
				}
				log.Info("postgres migrated", "applied", applied)
				ran = true
			}

			if cfg.Storage.Transfers == config.BackendClickhouse {
				conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
				if err != nil {
					return err
				}
				if err := conn.Close(); err != nil {
					log.Warn("close clickhouse", "error", err)
				}
				log.Info("clickhouse migrated")
				ran = true
			}

			if !ran {
				return errors.New("nothing to migrate: memory backends have no schema")
			}
			return nil
		},
	}
}
