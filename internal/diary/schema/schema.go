// Package schema holds the stored shape of the diary: row types and the DDL
// that creates the tables, keys and indexes behind them.
package schema

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/2beens/liftingdiary/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var DDL string

// Tables in creation order. Children come after their parents.
var Tables = []string{
	"exercise_catalog",
	"workouts",
	"workout_exercises",
	"exercise_sets",
	"workout_templates",
	"template_exercises",
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Apply creates every missing table and index. It is safe to run repeatedly.
func Apply(ctx context.Context, db execer) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "schema.apply")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if _, err := db.Exec(ctx, DDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
