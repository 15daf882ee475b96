package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/liftingdiary/internal/diary/schema"
	"github.com/2beens/liftingdiary/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrStoreUnavailable = errors.New("exercise catalog unavailable")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) List(ctx context.Context) (_ []schema.ExerciseCatalogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM exercise_catalog
		ORDER BY name ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	entries := make([]schema.ExerciseCatalogEntry, 0)
	for rows.Next() {
		var e schema.ExerciseCatalogEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan catalog entry: %w", ErrStoreUnavailable, err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		e.UpdatedAt = e.UpdatedAt.UTC()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	span.SetAttributes(attribute.Int("entries", len(entries)))
	return entries, nil
}
