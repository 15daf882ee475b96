// Package seed fills the store with the standard exercise catalog and with
// generated demo workouts.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/liftingdiary/internal/telemetry/tracing"
	"github.com/2beens/liftingdiary/pkg"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

var ErrSchemaMissing = errors.New("diary schema missing, run schema apply first")

// CatalogNames is the standard exercise list, grouped by muscle group.
var CatalogNames = []string{
	// chest
	"Bench Press",
	"Incline Bench Press",
	"Decline Bench Press",
	"Dumbbell Press",
	"Chest Fly",
	"Push-ups",
	"Cable Crossover",
	// back
	"Deadlift",
	"Barbell Row",
	"Dumbbell Row",
	"Pull-ups",
	"Chin-ups",
	"Lat Pulldown",
	"Seated Cable Row",
	"T-Bar Row",
	// shoulders
	"Overhead Press",
	"Military Press",
	"Dumbbell Shoulder Press",
	"Lateral Raise",
	"Front Raise",
	"Rear Delt Fly",
	"Face Pull",
	// legs
	"Squat",
	"Front Squat",
	"Leg Press",
	"Leg Extension",
	"Leg Curl",
	"Romanian Deadlift",
	"Lunges",
	"Bulgarian Split Squat",
	"Calf Raise",
	// arms
	"Barbell Curl",
	"Dumbbell Curl",
	"Hammer Curl",
	"Preacher Curl",
	"Tricep Dip",
	"Close-Grip Bench Press",
	"Tricep Pushdown",
	"Skull Crusher",
	"Overhead Tricep Extension",
	// core
	"Plank",
	"Crunches",
	"Sit-ups",
	"Russian Twist",
	"Leg Raise",
	"Mountain Climbers",
	"Ab Wheel Rollout",
	"Cable Crunch",
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type CatalogResult struct {
	Inserted int
	Skipped  int
}

// Catalog inserts every name not yet present in exercise_catalog. Each name
// goes in its own statement so an existing one only skips itself.
func Catalog(ctx context.Context, db execer, names []string) (result CatalogResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "seed.catalog")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	for _, name := range names {
		if _, err := db.Exec(ctx, `INSERT INTO exercise_catalog (name) VALUES ($1)`, name); err != nil {
			if pkg.IsUniqueViolationError(err) {
				log.Tracef("seed catalog: %s already present", name)
				result.Skipped++
				continue
			}
			if pkg.IsUndefinedTableError(err) {
				return result, fmt.Errorf("%w: %w", ErrSchemaMissing, err)
			}
			return result, fmt.Errorf("insert exercise [%s]: %w", name, err)
		}
		result.Inserted++
	}

	log.Debugf("seed catalog: %d inserted, %d skipped", result.Inserted, result.Skipped)
	return result, nil
}
