package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vadimbarashkov/linkshrink/internal/app"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema of the configured storage driver",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(cmd, opts, true)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all applied migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(cmd, opts, false)
			},
		},
	)

	return cmd
}

func runMigrate(cmd *cobra.Command, opts *rootOptions, up bool) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	if err := app.Migrate(cfg, up); err != nil {
		return err
	}

	direction := "applied"
	if !up {
		direction = "reverted"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migrations %s for %s storage.\n", direction, cfg.Storage.Driver)

	return nil
}
