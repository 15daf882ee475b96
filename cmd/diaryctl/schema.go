package main

import (
	"context"
	"fmt"

	"github.com/2beens/liftingdiary/internal/config"
	"github.com/2beens/liftingdiary/internal/diary/schema"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newSchemaCmd(opts *options) *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the diary database schema",
	}

	schemaCmd.AddCommand(&cobra.Command{
		Use:   "apply",
		Short: "Create the diary tables and indexes if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				if err := schema.Apply(ctx, pool); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "schema applied to [%s]\n", cfg.PostgresDBName)
				return err
			})
		},
	})

	return schemaCmd
}
