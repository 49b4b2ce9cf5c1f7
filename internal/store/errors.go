package store

import "errors"

var (
	// ErrNotConnected is returned while the connection loop has not yet
	// produced a working connection.
	ErrNotConnected = errors.New("storage is not connected")

	// ErrUnsupportedDSN is returned for a data source name of an unknown
	// scheme. The connection loop gives up on it.
	ErrUnsupportedDSN = errors.New("unsupported storage dsn")

	// ErrEmptyDSN is returned when no data source name is configured.
	ErrEmptyDSN = errors.New("storage dsn is empty")

	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query fails.
	ErrExecutingQuery = errors.New("error executing sql query")
)
