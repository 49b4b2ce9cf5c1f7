package store

import (
	"fmt"
	"strings"
)

// Driver names registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// ParseDSN resolves the driver of dsn and the source passed to sql.Open.
//
//	postgres://..., postgresql://...  -> pgx, dsn as is
//	sqlite3://<path>, sqlite://<path> -> sqlite3, <path>
//	file:<path>                       -> sqlite3, dsn as is
func ParseDSN(dsn string) (driver, source string, err error) {
	switch {
	case dsn == "":
		return "", "", ErrEmptyDSN
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite3://"):
		return DriverSQLite, strings.TrimPrefix(dsn, "sqlite3://"), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"):
		return DriverSQLite, dsn, nil
	default:
		scheme, _, _ := strings.Cut(dsn, "://")
		return "", "", fmt.Errorf("%w: scheme %q", ErrUnsupportedDSN, scheme)
	}
}
