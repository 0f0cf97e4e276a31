package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"token-flow-lab/internal/config"
	"token-flow-lab/internal/fixtures"
)

func newSeedCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo ledger into the configured stores",
		Long: `seed inserts the deterministic two-chain demo ledger, ending at --at (default now),
into the configured stores. Run migrate first. Seeding twice fails on duplicate transfers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.validate(); err != nil {
				return err
			}
			cfg, log := a.cfg, a.log
			if cfg.Storage.Accounts == config.BackendMemory {
				return errors.New("seed needs a persistent backend; use generate --use-fixtures for memory")
			}

			now := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}
				now = t
			}

			ctx := cmd.Context()
			led, err := openLedger(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer led.Close()

			if err := fixtures.Load(ctx, led.transfers, led.accounts, now); err != nil {
				return err
			}
			log.Info("demo ledger seeded",
				"transfers", len(fixtures.Transfers(now)),
				"ends_at", now.UTC().Format(time.RFC3339),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "RFC 3339 end time of the demo ledger")
	return cmd
}
