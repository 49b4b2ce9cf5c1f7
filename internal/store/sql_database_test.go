package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

func newMockDB(t *testing.T, driver string) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewDB(conn, driver, logger.Nop()), mock
}

func TestDB_BuilderPlaceholders(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{driver: DriverPostgres, want: "SELECT id FROM orders WHERE state = $1 AND owner = $2"},
		{driver: DriverSQLite, want: "SELECT id FROM orders WHERE state = ? AND owner = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			db, _ := newMockDB(t, tt.driver)

			query, args, err := db.Builder().
				Select("id").
				From("orders").
				Where("state = ?", "open").
				Where("owner = ?", 7).
				ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Equal(t, []any{"open", 7}, args)
		})
	}
}

func TestDB_Healthy(t *testing.T) {
	db, mock := newMockDB(t, DriverPostgres)

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	assert.NoError(t, db.Healthy(context.Background()))

	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("connection reset"))
	assert.ErrorIs(t, db.Healthy(context.Background()), ErrExecutingQuery)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_ClassifyByDriver(t *testing.T) {
	pg, _ := newMockDB(t, DriverPostgres)
	assert.IsType(t, &PostgresErrorClassifier{}, pg.errorClassificator)

	lite, _ := newMockDB(t, DriverSQLite)
	assert.IsType(t, &SQLiteErrorClassifier{}, lite.errorClassificator)

	unknown, _ := newMockDB(t, "mysql")
	assert.Equal(t, NonRetryable, unknown.Classify(errors.New("boom")))
}

func TestOpen_SQLiteFileWithMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")
	ctx := context.Background()

	db, err := Open(ctx, "sqlite3://"+path, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
	assert.Equal(t, DriverSQLite, db.Driver())

	require.NoError(t, db.Migrate(ctx, fstest.MapFS{
		"00001_orders.sql": &fstest.MapFile{Data: []byte("-- +goose Up\nCREATE TABLE orders (id INTEGER PRIMARY KEY, title TEXT);\n")},
	}))

	_, err = db.Builder().Insert("orders").Columns("title").Values("first").ExecContext(ctx)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Builder().Select("COUNT(*)").From("orders").QueryRowContext(ctx).Scan(&count))
	assert.Equal(t, 1, count)
	assert.NoError(t, db.Healthy(ctx))
}

func TestOpen_UnsupportedDSN(t *testing.T) {
	_, err := Open(context.Background(), "redis://localhost", logger.Nop())
	assert.ErrorIs(t, err, ErrUnsupportedDSN)
}
