package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogDB struct {
	existing map[string]bool
	failOn   string
	noTable  bool
	inserted []string
}

func (f *fakeCatalogDB) Exec(_ context.Context, _ string, arguments ...any) (pgconn.CommandTag, error) {
	name := arguments[0].(string)
	if f.noTable {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: "42P01", Message: `relation "exercise_catalog" does not exist`}
	}
	if name == f.failOn {
		return pgconn.CommandTag{}, errors.New("connection reset")
	}
	if f.existing[name] {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505", ConstraintName: "exercise_catalog_name_key"}
	}
	f.existing[name] = true
	f.inserted = append(f.inserted, name)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestCatalogNames(t *testing.T) {
	assert.Len(t, CatalogNames, 48)
	assert.Equal(t, "Bench Press", CatalogNames[0])
	assert.Equal(t, "Cable Crunch", CatalogNames[len(CatalogNames)-1])

	seen := make(map[string]bool)
	for _, name := range CatalogNames {
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}

func TestCatalog_SkipsExisting(t *testing.T) {
	db := &fakeCatalogDB{existing: map[string]bool{"Squat": true, "Plank": true}}

	result, err := Catalog(context.Background(), db, CatalogNames)
	require.NoError(t, err)
	assert.Equal(t, len(CatalogNames)-2, result.Inserted)
	assert.Equal(t, 2, result.Skipped)
	assert.NotContains(t, db.inserted, "Squat")

	// running it again inserts nothing
	result, err = Catalog(context.Background(), db, CatalogNames)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, len(CatalogNames), result.Skipped)
}

func TestCatalog_StopsOnStoreError(t *testing.T) {
	db := &fakeCatalogDB{existing: map[string]bool{}, failOn: "Deadlift"}

	result, err := Catalog(context.Background(), db, CatalogNames)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Deadlift")
	assert.Equal(t, 7, result.Inserted)
}

func TestCatalog_SchemaMissing(t *testing.T) {
	db := &fakeCatalogDB{existing: map[string]bool{}, noTable: true}

	result, err := Catalog(context.Background(), db, CatalogNames)
	assert.ErrorIs(t, err, ErrSchemaMissing)
	assert.Zero(t, result.Inserted)
	assert.Empty(t, db.inserted)
}
