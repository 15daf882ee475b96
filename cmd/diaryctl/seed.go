package main

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/liftingdiary/internal/config"
	"github.com/2beens/liftingdiary/internal/diary/seed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *options) *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert reference and demo data",
	}

	seedCmd.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "Insert the standard exercise catalog, skipping existing names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, _ *config.Config, pool *pgxpool.Pool) error {
				res, err := seed.Catalog(ctx, pool, seed.CatalogNames)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "catalog: %d inserted, %d skipped\n", res.Inserted, res.Skipped)
				return err
			})
		},
	})

	seedCmd.AddCommand(newSeedDemoCmd(opts))

	return seedCmd
}

func newSeedDemoCmd(opts *options) *cobra.Command {
	var (
		userID   string
		days     int
		until    string
		seedSalt int64
	)

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate fake workouts for one user over consecutive days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				untilDate, err := resolveDate(until, time.Now(), cfg.Location())
				if err != nil {
					return err
				}

				created, err := seed.Demo(ctx, pool, seed.DemoParams{
					UserID:   userID,
					Days:     days,
					Until:    untilDate,
					Location: cfg.Location(),
					Seed:     seedSalt,
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "demo: %d workouts for [%s] until %s\n", created, userID, untilDate)
				return err
			})
		},
	}

	demoCmd.Flags().StringVar(&userID, "user", "", "owner user id")
	demoCmd.Flags().IntVar(&days, "days", 14, "number of days, ending with --until")
	demoCmd.Flags().StringVar(&until, "until", "", "last day YYYY-MM-DD (default today in the target timezone)")
	demoCmd.Flags().Int64Var(&seedSalt, "seed", 1, "generator seed, same seed gives the same workouts")
	_ = demoCmd.MarkFlagRequired("user")

	return demoCmd
}
