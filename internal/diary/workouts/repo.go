package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/liftingdiary/internal/diary/daywindow"
	"github.com/2beens/liftingdiary/internal/diary/schema"
	"github.com/2beens/liftingdiary/internal/telemetry/metrics"
	"github.com/2beens/liftingdiary/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Snapshot is the flat result of one consistent read: parents first, then
// children keyed by parent id, each slice already in output order.
type Snapshot struct {
	Workouts  []schema.Workout
	Exercises []ExerciseRow
	Sets      []schema.Set
}

type ExerciseRow struct {
	schema.WorkoutExercise
	Catalog schema.ExerciseCatalogEntry
}

type Repo struct {
	db             *pgxpool.Pool
	metricsManager *metrics.Manager
}

func NewRepo(db *pgxpool.Pool, metricsManager *metrics.Manager) *Repo {
	return &Repo{
		db:             db,
		metricsManager: metricsManager,
	}
}

var readOnlySnapshot = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

const (
	selectWorkoutColumns = `
		SELECT w.id, w.user_id, w.name, w.workout_date, w.started_at, w.completed_at, w.created_at, w.updated_at
		FROM workouts w`

	selectExercisesSQL = `
		SELECT we.id, we.workout_id, we.exercise_catalog_id, we."order", we.notes, we.created_at,
		       ec.id, ec.name, ec.created_at, ec.updated_at
		FROM workout_exercises we
		JOIN workouts w ON w.id = we.workout_id
		JOIN exercise_catalog ec ON ec.id = we.exercise_catalog_id
		WHERE we.workout_id = ANY($1::int[])
		  AND w.user_id = $2
		ORDER BY we.workout_id, we."order" ASC, we.id ASC`

	selectSetsSQL = `
		SELECT s.id, s.workout_exercise_id, s.set_number, s.reps, s.weight::text, s.weight_unit, s.created_at
		FROM exercise_sets s
		JOIN workout_exercises we ON we.id = s.workout_exercise_id
		JOIN workouts w ON w.id = we.workout_id
		WHERE we.workout_id = ANY($1::int[])
		  AND w.user_id = $2
		ORDER BY s.workout_exercise_id, s.set_number ASC`
)

// ListInWindow returns the owner's workouts with window.Start <= workout_date < window.End,
// newest first, together with their exercises and sets.
func (r *Repo) ListInWindow(ctx context.Context, ownerUserID string, window daywindow.Window) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listInWindow")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(
		attribute.String("owner", ownerUserID),
		attribute.String("window.start", window.Start.Format(time.RFC3339)),
		attribute.String("window.end", window.End.Format(time.RFC3339)),
	)

	defer r.observe("list_in_window", time.Now(), &err)

	snap := &Snapshot{}
	err = r.inSnapshot(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectWorkoutColumns+`
			WHERE w.user_id = $1
			  AND w.workout_date >= $2
			  AND w.workout_date < $3
			ORDER BY w.workout_date DESC, w.id ASC`,
			ownerUserID, window.Start, window.End,
		)
		if err != nil {
			return err
		}
		snap.Workouts, err = scanWorkouts(rows)
		if err != nil {
			return err
		}
		return fetchChildren(ctx, tx, ownerUserID, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	span.SetAttributes(attribute.Int("workouts", len(snap.Workouts)))
	return snap, nil
}

// GetByID returns the single workout matching both id and owner. A workout
// owned by someone else is reported exactly like a missing one.
func (r *Repo) GetByID(ctx context.Context, ownerUserID string, workoutID int) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.getById")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(
		attribute.String("owner", ownerUserID),
		attribute.Int("workout.id", workoutID),
	)

	defer r.observe("get_by_id", time.Now(), &err)

	snap := &Snapshot{}
	err = r.inSnapshot(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectWorkoutColumns+`
			WHERE w.id = $1
			  AND w.user_id = $2`,
			workoutID, ownerUserID,
		)
		if err != nil {
			return err
		}
		snap.Workouts, err = scanWorkouts(rows)
		if err != nil {
			return err
		}
		if len(snap.Workouts) == 0 {
			return pgx.ErrNoRows
		}
		return fetchChildren(ctx, tx, ownerUserID, snap)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return snap, nil
}

// inSnapshot runs fn inside one REPEATABLE READ, READ ONLY transaction so all
// queries of a call see the same state of the store.
func (r *Repo) inSnapshot(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, readOnlySnapshot)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("rollback: %w: %w", rollbackErr, err)
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("commit: %w", commitErr)
		}
	}()

	return fn(tx)
}

func (r *Repo) observe(operation string, begin time.Time, err *error) {
	if r.metricsManager == nil {
		return
	}
	r.metricsManager.HistogramStoreQueryDuration.WithLabelValues(operation).Observe(time.Since(begin).Seconds())
	if errors.Is(*err, ErrStoreUnavailable) {
		r.metricsManager.CounterStoreErrors.WithLabelValues(operation).Inc()
	}
}

func fetchChildren(ctx context.Context, tx pgx.Tx, ownerUserID string, snap *Snapshot) error {
	if len(snap.Workouts) == 0 {
		return nil
	}

	workoutIDs := make([]int, 0, len(snap.Workouts))
	for _, w := range snap.Workouts {
		workoutIDs = append(workoutIDs, w.ID)
	}

	rows, err := tx.Query(ctx, selectExercisesSQL, workoutIDs, ownerUserID)
	if err != nil {
		return fmt.Errorf("query exercises: %w", err)
	}
	snap.Exercises, err = scanExercises(rows)
	if err != nil {
		return err
	}
	if len(snap.Exercises) == 0 {
		return nil
	}

	rows, err = tx.Query(ctx, selectSetsSQL, workoutIDs, ownerUserID)
	if err != nil {
		return fmt.Errorf("query sets: %w", err)
	}
	snap.Sets, err = scanSets(rows)
	return err
}

func scanWorkouts(rows pgx.Rows) ([]schema.Workout, error) {
	defer rows.Close()

	workouts := make([]schema.Workout, 0)
	for rows.Next() {
		var w schema.Workout
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Name, &w.WorkoutDate,
			&w.StartedAt, &w.CompletedAt, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		w.WorkoutDate = w.WorkoutDate.UTC()
		w.StartedAt = utcPtr(w.StartedAt)
		w.CompletedAt = utcPtr(w.CompletedAt)
		w.CreatedAt = w.CreatedAt.UTC()
		w.UpdatedAt = w.UpdatedAt.UTC()
		workouts = append(workouts, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workout rows: %w", err)
	}
	return workouts, nil
}

func scanExercises(rows pgx.Rows) ([]ExerciseRow, error) {
	defer rows.Close()

	exercises := make([]ExerciseRow, 0)
	for rows.Next() {
		var e ExerciseRow
		if err := rows.Scan(
			&e.ID, &e.WorkoutID, &e.ExerciseCatalogID, &e.Order, &e.Notes, &e.CreatedAt,
			&e.Catalog.ID, &e.Catalog.Name, &e.Catalog.CreatedAt, &e.Catalog.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		e.Catalog.CreatedAt = e.Catalog.CreatedAt.UTC()
		e.Catalog.UpdatedAt = e.Catalog.UpdatedAt.UTC()
		exercises = append(exercises, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exercise rows: %w", err)
	}
	return exercises, nil
}

func scanSets(rows pgx.Rows) ([]schema.Set, error) {
	defer rows.Close()

	sets := make([]schema.Set, 0)
	for rows.Next() {
		var s schema.Set
		if err := rows.Scan(
			&s.ID, &s.WorkoutExerciseID, &s.SetNumber, &s.Reps, &s.Weight, &s.WeightUnit, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		s.CreatedAt = s.CreatedAt.UTC()
		sets = append(sets, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("set rows: %w", err)
	}
	return sets, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
