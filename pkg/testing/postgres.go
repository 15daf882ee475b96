package testing

import (
	"context"
	"testing"
	"time"

	"github.com/2beens/liftingdiary/internal/db"
	"github.com/2beens/liftingdiary/internal/diary/schema"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// GetDBPool connects to POSTGRES_HOST:POSTGRES_PORT, applies the diary schema and
// closes the pool when the test ends. Tests share the database, so fixtures
// should use unique user ids.
func GetDBPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	params := db.NewDBPoolParams{
		DBHost:     envOr("POSTGRES_HOST", "localhost"),
		DBPort:     envOr("POSTGRES_PORT", "5432"),
		DBName:     envOr("POSTGRES_DB", "lifting_diary"),
		DBPassword: envOr("POSTGRES_PASSWORD", ""),
	}
	t.Logf("using postgres at %s:%s", params.DBHost, params.DBPort)

	dbPool, err := db.NewDBPool(ctx, params)
	require.NoError(t, err)
	t.Cleanup(dbPool.Close)

	require.NoError(t, dbPool.Ping(ctx))
	require.NoError(t, schema.Apply(ctx, dbPool))

	return dbPool
}
