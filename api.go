// Package sqlport executes SQL templates with named or positional parameters
// and materializes query results into a portable, driver-independent form.
//
// Templates may use :name placeholders; they are rewritten to the positional
// placeholders your database expects (via a ParamAdapter) and bound from
// keyed records. Query results come back as a Result holding only primitive
// and well-known composite values, so they can be serialized or handed across
// process boundaries without dragging driver types along.
package sqlport

import (
	"context"
	"database/sql"
)

// Preparer prepares statements against a data store. The adapter package
// wraps *sql.DB, *sql.Tx, and *sql.Conn into this interface.
type Preparer interface {
	// PrepareContext compiles the query into a Statement. The query contains
	// only positional placeholders by the time it gets here.
	PrepareContext(ctx context.Context, query string) (Statement, error)
}

// Statement is a prepared statement with 1-based value slots. A Statement is
// owned by a single invocation and must be closed when the invocation ends.
type Statement interface {
	// BindValue binds value into the given slot. Slots are numbered from 1.
	// No type coercion happens here; the driver does its own mapping.
	BindValue(slot int, value interface{}) error

	// ExecContext runs the statement and reports the driver's result.
	ExecContext(ctx context.Context) (sql.Result, error)

	// QueryContext runs the statement and returns a cursor over its rows.
	QueryContext(ctx context.Context) (Cursor, error)

	// Close releases the prepared statement.
	Close() error
}

// Cursor is the driver's forward-only iterator over result rows. Consuming a
// cursor twice is not supported.
type Cursor interface {
	// ColumnCount reports the number of columns in the result.
	ColumnCount() int

	// ColumnName returns the name of column i, 0-based, in source order.
	ColumnName(i int) string

	// Advance moves to the next row, returning false at the end or on error.
	Advance() bool

	// ValueAt returns the raw driver value of column i in the current row.
	ValueAt(i int) interface{}

	// Err reports the first error hit while iterating.
	Err() error

	// Close releases the cursor.
	Close() error
}

// CharLob is a character large object handed back by a driver. The normalizer
// reads it in full and frees it. Lengths are int64 but reads take an int, so
// an object longer than an int can represent is truncated, not failed.
type CharLob interface {
	Len() int64
	Substring(pos int64, length int) (string, error)
	Free() error
}

// BinaryLob is a binary large object. Same reading and truncation rules as
// CharLob.
type BinaryLob interface {
	Len() int64
	Bytes(pos int64, length int) ([]byte, error)
	Free() error
}

// SQLArray is a driver-native SQL array. Slice returns the native elements;
// a nil slice with a nil error means the array could not be materialized.
type SQLArray interface {
	Slice() ([]interface{}, error)
	Free() error
}

// ParamAdapter maps a 1-based position to a valid positional placeholder for
// a DBMS. For example, MySQL uses ? for every parameter, while Postgres uses
// $NUM and Oracle uses :NUM.
type ParamAdapter func(pos int) string

// QueryMapper maps from a query name to an actual query.
// It is used when a query string is given as q:name.
type QueryMapper interface {
	// Maps the supplied name to a query string
	// returns an empty string if there is no query associated with the supplied name
	Map(name string) string
}

// ResultHandler decides what to do with a prepared, bound statement: run it
// as a query and materialize rows, run it as an exec and count rows, or
// anything else the caller needs. It is invoked after binding completes.
type ResultHandler func(ctx context.Context, stmt Statement) (interface{}, error)
