package main

import (
	"context"

	"github.com/spf13/cobra"
)

func provisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Create the datman PostgreSQL database if it does not exist",
		Args:  cobra.NoArgs,
		RunE:  runProvision,
	}
}

func runProvision(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	outcome, err := newResolver(logger).EnsurePostgres(ctx, cfg)
	if err != nil {
		return err
	}
	cmd.Printf("%s: %s\n", cfg.Datman.DBName, outcome)
	return nil
}
