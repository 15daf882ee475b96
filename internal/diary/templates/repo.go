package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/liftingdiary/internal/diary/schema"
	"github.com/2beens/liftingdiary/internal/diary/workouts"
	"github.com/2beens/liftingdiary/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNotFound = errors.New("template not found")

type ExerciseRow struct {
	schema.TemplateExercise
	ExerciseName string
}

type Snapshot struct {
	Templates []schema.WorkoutTemplate
	Exercises []ExerciseRow
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const (
	selectTemplateColumns = `
		SELECT t.id, t.user_id, t.name, t.description, t.is_public, t.usage_count, t.created_at, t.updated_at
		FROM workout_templates t`

	selectTemplateExercisesSQL = `
		SELECT te.id, te.template_id, te.exercise_catalog_id, te."order",
		       te.target_sets, te.target_reps_min, te.target_reps_max, te.notes, ec.name
		FROM template_exercises te
		JOIN workout_templates t ON t.id = te.template_id
		JOIN exercise_catalog ec ON ec.id = te.exercise_catalog_id
		WHERE te.template_id = ANY($1::int[])
		  AND t.user_id = $2
		ORDER BY te.template_id, te."order" ASC, te.id ASC`
)

func (r *Repo) List(ctx context.Context, ownerUserID string) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("owner", ownerUserID))

	snap := &Snapshot{}
	err = r.read(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectTemplateColumns+`
			WHERE t.user_id = $1
			ORDER BY t.name ASC, t.id ASC`,
			ownerUserID,
		)
		if err != nil {
			return err
		}
		if snap.Templates, err = scanTemplates(rows); err != nil {
			return err
		}
		return fetchExercises(ctx, tx, ownerUserID, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", workouts.ErrStoreUnavailable, err)
	}

	return snap, nil
}

// Get returns one template matching both id and owner; a foreign template is
// reported as ErrNotFound.
func (r *Repo) Get(ctx context.Context, ownerUserID string, templateID int) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(
		attribute.String("owner", ownerUserID),
		attribute.Int("template.id", templateID),
	)

	snap := &Snapshot{}
	err = r.read(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectTemplateColumns+`
			WHERE t.id = $1
			  AND t.user_id = $2`,
			templateID, ownerUserID,
		)
		if err != nil {
			return err
		}
		if snap.Templates, err = scanTemplates(rows); err != nil {
			return err
		}
		if len(snap.Templates) == 0 {
			return pgx.ErrNoRows
		}
		return fetchExercises(ctx, tx, ownerUserID, snap)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", workouts.ErrStoreUnavailable, err)
	}

	return snap, nil
}

func (r *Repo) read(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}, fn)
}

func fetchExercises(ctx context.Context, tx pgx.Tx, ownerUserID string, snap *Snapshot) error {
	if len(snap.Templates) == 0 {
		return nil
	}

	templateIDs := make([]int, 0, len(snap.Templates))
	for _, t := range snap.Templates {
		templateIDs = append(templateIDs, t.ID)
	}

	rows, err := tx.Query(ctx, selectTemplateExercisesSQL, templateIDs, ownerUserID)
	if err != nil {
		return fmt.Errorf("query template exercises: %w", err)
	}
	defer rows.Close()

	snap.Exercises = make([]ExerciseRow, 0)
	for rows.Next() {
		var e ExerciseRow
		if err := rows.Scan(
			&e.ID, &e.TemplateID, &e.ExerciseCatalogID, &e.Order,
			&e.TargetSets, &e.TargetRepsMin, &e.TargetRepsMax, &e.Notes, &e.ExerciseName,
		); err != nil {
			return fmt.Errorf("scan template exercise: %w", err)
		}
		snap.Exercises = append(snap.Exercises, e)
	}
	return rows.Err()
}

func scanTemplates(rows pgx.Rows) ([]schema.WorkoutTemplate, error) {
	defer rows.Close()

	templates := make([]schema.WorkoutTemplate, 0)
	for rows.Next() {
		var t schema.WorkoutTemplate
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Name, &t.Description, &t.IsPublic, &t.UsageCount, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		t.CreatedAt = t.CreatedAt.UTC()
		t.UpdatedAt = t.UpdatedAt.UTC()
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("template rows: %w", err)
	}
	return templates, nil
}
