package seed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/2beens/liftingdiary/internal/diary/daywindow"
	"github.com/2beens/liftingdiary/internal/telemetry/tracing"
	"github.com/2beens/liftingdiary/pkg"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrEmptyCatalog = errors.New("exercise catalog is empty, seed it first")

var demoWorkoutNames = []string{"Push day", "Pull day", "Leg day", "Upper body", "Full body"}

type DemoParams struct {
	UserID string
	// number of consecutive days, ending with Until
	Days     int
	Until    daywindow.Date
	Location *time.Location
	// same seed, same plan
	Seed int64
}

type DemoWorkout struct {
	Name        string
	WorkoutDate time.Time
	StartedAt   time.Time
	CompletedAt time.Time
	Exercises   []DemoExercise
}

type DemoExercise struct {
	ExerciseCatalogID int
	Sets              []DemoSet
}

type DemoSet struct {
	Reps   int
	Weight string
}

func (p DemoParams) validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return errors.New("user id empty")
	}
	if p.Days <= 0 {
		return errors.New("days must be positive")
	}
	if !p.Until.Valid() {
		return fmt.Errorf("%w: %s", daywindow.ErrInvalidDate, p.Until)
	}
	return nil
}

// PlanDemo builds one workout per day. Every workout instant falls inside the
// day window of its calendar date in params.Location.
func PlanDemo(params DemoParams, catalogIDs []int) []DemoWorkout {
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	faker := gofakeit.New(params.Seed)

	plan := make([]DemoWorkout, 0, params.Days)
	first := params.Until.AddDays(-(params.Days - 1))
	for d := first; !params.Until.Before(d); d = d.Next() {
		window := daywindow.Compute(d, loc)
		// 06:00 to 20:59 measured from the window start, always short of the shortest day
		offset := time.Duration(faker.Number(6, 20))*time.Hour + time.Duration(faker.Number(0, 59))*time.Minute
		workoutDate := window.Start.Add(offset)

		ids := append([]int(nil), catalogIDs...)
		faker.ShuffleInts(ids)
		exerciseCount := faker.Number(3, 5)
		if exerciseCount > len(ids) {
			exerciseCount = len(ids)
		}

		exercises := make([]DemoExercise, 0, exerciseCount)
		for _, id := range ids[:exerciseCount] {
			setCount := faker.Number(3, 5)
			sets := make([]DemoSet, 0, setCount)
			baseWeight := faker.Float64Range(20, 140)
			for i := 0; i < setCount; i++ {
				// half kilo steps
				weight := math.Round((baseWeight+float64(i)*2.5)*2) / 2
				sets = append(sets, DemoSet{
					Reps:   faker.Number(5, 12),
					Weight: fmt.Sprintf("%.2f", weight),
				})
			}
			exercises = append(exercises, DemoExercise{ExerciseCatalogID: id, Sets: sets})
		}

		plan = append(plan, DemoWorkout{
			Name:        faker.RandomString(demoWorkoutNames),
			WorkoutDate: workoutDate.UTC(),
			StartedAt:   workoutDate.UTC(),
			CompletedAt: workoutDate.Add(time.Duration(faker.Number(45, 90)) * time.Minute).UTC(),
			Exercises:   exercises,
		})
	}

	return plan
}

// Demo writes a generated plan for params.UserID in a single transaction and
// returns the number of workouts created.
func Demo(ctx context.Context, db *pgxpool.Pool, params DemoParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "seed.demo")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(
		attribute.String("user", params.UserID),
		attribute.Int("days", params.Days),
	)

	if err := params.validate(); err != nil {
		return 0, fmt.Errorf("demo params: %w", err)
	}

	catalogIDs, err := loadCatalogIDs(ctx, db)
	if err != nil {
		return 0, err
	}
	if len(catalogIDs) == 0 {
		return 0, ErrEmptyCatalog
	}

	plan := PlanDemo(params, catalogIDs)
	err = pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		for _, w := range plan {
			if err := insertDemoWorkout(ctx, tx, params.UserID, w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("insert demo workouts: %w", err)
	}

	log.Debugf("seed demo: %d workouts for user %s", len(plan), params.UserID)
	return len(plan), nil
}

func loadCatalogIDs(ctx context.Context, db *pgxpool.Pool) ([]int, error) {
	rows, err := db.Query(ctx, `SELECT id FROM exercise_catalog ORDER BY id`)
	if err != nil {
		if pkg.IsUndefinedTableError(err) {
			return nil, fmt.Errorf("%w: %w", ErrSchemaMissing, err)
		}
		return nil, fmt.Errorf("query catalog ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("collect catalog ids: %w", err)
	}
	return ids, nil
}

func insertDemoWorkout(ctx context.Context, tx pgx.Tx, userID string, w DemoWorkout) error {
	var workoutID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO workouts (user_id, name, workout_date, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		userID, w.Name, w.WorkoutDate, w.StartedAt, w.CompletedAt,
	).Scan(&workoutID); err != nil {
		return fmt.Errorf("insert workout: %w", err)
	}

	for i, e := range w.Exercises {
		var workoutExerciseID int
		if err := tx.QueryRow(ctx, `
			INSERT INTO workout_exercises (workout_id, exercise_catalog_id, "order")
			VALUES ($1, $2, $3)
			RETURNING id`,
			workoutID, e.ExerciseCatalogID, i+1,
		).Scan(&workoutExerciseID); err != nil {
			if pkg.IsForeignKeyViolationError(err) {
				return fmt.Errorf("catalog entry %d removed while seeding: %w", e.ExerciseCatalogID, err)
			}
			return fmt.Errorf("insert workout exercise: %w", err)
		}

		for j, s := range e.Sets {
			if _, err := tx.Exec(ctx, `
				INSERT INTO exercise_sets (workout_exercise_id, set_number, reps, weight)
				VALUES ($1, $2, $3, $4::numeric)`,
				workoutExerciseID, j+1, s.Reps, s.Weight,
			); err != nil {
				return fmt.Errorf("insert set: %w", err)
			}
		}
	}

	return nil
}
