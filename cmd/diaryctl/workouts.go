package main

import (
	"context"
	"time"

	"github.com/2beens/liftingdiary/internal/config"
	"github.com/2beens/liftingdiary/internal/diary/workouts"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newWorkoutsCmd(opts *options) *cobra.Command {
	workoutsCmd := &cobra.Command{
		Use:   "workouts",
		Short: "Read workouts the same way the service does",
	}

	var (
		userID string
		date   string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the workouts of one user for one calendar day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				service := workouts.NewService(workouts.NewRepo(pool, nil), cfg.Location())
				day, err := resolveDate(date, time.Now(), service.Location())
				if err != nil {
					return err
				}

				list, err := service.ListForDate(ctx, userID, day)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), workouts.ListResponse{
					Date:     day,
					Timezone: service.Location().String(),
					Workouts: list,
				})
			})
		},
	}
	listCmd.Flags().StringVar(&userID, "user", "", "owner user id")
	listCmd.Flags().StringVar(&date, "date", "", "calendar day YYYY-MM-DD (default today in the target timezone)")
	_ = listCmd.MarkFlagRequired("user")

	var (
		getUserID string
		workoutID int
	)
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print one workout of one user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				service := workouts.NewService(workouts.NewRepo(pool, nil), cfg.Location())
				w, err := service.GetByID(ctx, getUserID, workoutID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), w)
			})
		},
	}
	getCmd.Flags().StringVar(&getUserID, "user", "", "owner user id")
	getCmd.Flags().IntVar(&workoutID, "id", 0, "workout id")
	_ = getCmd.MarkFlagRequired("user")
	_ = getCmd.MarkFlagRequired("id")

	workoutsCmd.AddCommand(listCmd, getCmd)
	return workoutsCmd
}
