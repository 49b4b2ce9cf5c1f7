package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/migrations"
)

// DB is an open database with the SQL dialect it speaks.
type DB struct {
	*sql.DB
	driver             string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewDB wraps an already opened connection pool.
func NewDB(conn *sql.DB, driver string, log *logger.Logger) *DB {
	db := &DB{DB: conn, driver: driver, logger: log}
	switch driver {
	case DriverPostgres:
		db.errorClassificator = NewPostgresErrorClassifier()
	case DriverSQLite:
		db.errorClassificator = NewSQLiteErrorClassifier()
	}
	return db
}

// Open connects to dsn and pings it.
func Open(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	driver, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	switch driver {
	case DriverPostgres:
		return NewConnectPostgres(ctx, source, log)
	default:
		return NewConnectSQLite(ctx, source, log)
	}
}

// Driver returns the database/sql driver name.
func (db *DB) Driver() string {
	return db.driver
}

// Builder returns a statement builder with the placeholder format of the
// driver, bound to db.
func (db *DB) Builder() sq.StatementBuilderType {
	var format sq.PlaceholderFormat = sq.Question
	if db.driver == DriverPostgres {
		format = sq.Dollar
	}
	return sq.StatementBuilder.PlaceholderFormat(format).RunWith(db.DB)
}

// Healthy runs a trivial query.
func (db *DB) Healthy(ctx context.Context) error {
	var one int
	if err := db.Builder().Select("1").QueryRowContext(ctx).Scan(&one); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

// Classify reports whether err, returned by an operation on db, may be
// retried.
func (db *DB) Classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return NonRetryable
	}
	return db.errorClassificator.Classify(err)
}

// Migrate applies the goose migrations found in fsys.
func (db *DB) Migrate(ctx context.Context, fsys fs.FS) error {
	applied, err := migrations.Up(ctx, db.DB, db.driver, fsys)
	if err != nil {
		return err
	}
	db.logger.Info().Int("applied", applied).Msg("database migrated")
	return nil
}
