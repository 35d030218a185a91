package store

import (
	"context"
	"path/filepath"
	"testing"

	"mailstats/internal/config"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	st, err := Open(config.DatabaseConfig{SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.InitSchema(context.Background()))
	return st
}

func TestOpenSelectsBackendFromConfig(t *testing.T) {
	st, err := Open(config.DatabaseConfig{SQLitePath: filepath.Join(t.TempDir(), "a.db")})
	require.NoError(t, err)
	defer st.Close()
	require.Equal(t, BackendSQLite, st.Backend())

	pg, err := Open(config.DatabaseConfig{PostgresURL: "postgres://localhost/x?sslmode=disable"})
	require.NoError(t, err)
	defer pg.Close()
	require.Equal(t, BackendPostgres, pg.Backend())

	my, err := Open(config.DatabaseConfig{MySQLURL: "root@tcp(localhost:3306)/x"})
	require.NoError(t, err)
	defer my.Close()
	require.Equal(t, BackendMySQL, my.Backend())
}

func TestInitSchemaIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Repeated and concurrent calls must not error on existing tables.
	require.NoError(t, st.InitSchema(ctx))
	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() { done <- st.InitSchema(ctx) }()
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, <-done)
	}
}

func TestExecAndQuerySingle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	res, err := st.Exec(ctx, `INSERT INTO users (email, user_name) VALUES (?, ?)`, "a@b.com", "a")
	require.NoError(t, err)
	require.Greater(t, res.LastID, int64(0))
	require.Equal(t, int64(1), res.RowsAffected)

	row, err := st.QuerySingle(ctx, `SELECT id, email, user_name FROM users WHERE email = ?`, "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, row)
	require.Equal(t, res.LastID, row.Int("id"))
	require.Equal(t, "a@b.com", row.Str("email"))

	// Absent row is a nil Row with no error.
	missing, err := st.QuerySingle(ctx, `SELECT id FROM users WHERE email = ?`, "nobody@b.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestQueryRowsEmptyResult(t *testing.T) {
	st := newTestStore(t)

	rows, err := st.QueryRows(context.Background(), `SELECT * FROM daily_stats WHERE date = ?`, "2024-01-01")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestUniqueConstraintSurfacesTypedError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Exec(ctx, `INSERT INTO users (email, user_name) VALUES (?, ?)`, "a@b.com", "a")
	require.NoError(t, err)
	_, err = st.Exec(ctx, `INSERT INTO users (email, user_name) VALUES (?, ?)`, "a@b.com", "a")
	require.Error(t, err)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, BackendSQLite, serr.Backend)
	require.NotNil(t, serr.Unwrap())
}

func TestDefaultSingletonAndShutdown(t *testing.T) {
	st := newTestStore(t)
	SetDefault(st)
	t.Cleanup(func() { SetDefault(nil) })

	got, err := Default()
	require.NoError(t, err)
	require.Same(t, st, got)

	require.NoError(t, Shutdown())
	got2, err := Default()
	require.NoError(t, err)
	require.NotNil(t, got2)
	require.NoError(t, Shutdown())
}
