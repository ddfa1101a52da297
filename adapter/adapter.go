// Package adapter bridges the standard go sql package into sqlport and
// provides positional-placeholder styles for common databases.
package adapter

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonbodner/sqlport"
)

func MySQL(pos int) string {
	return "?"
}

func Sqlite(pos int) string {
	return "?"
}

func Postgres(pos int) string {
	return fmt.Sprintf("$%d", pos)
}

func Oracle(pos int) string {
	return fmt.Sprintf(":%d", pos)
}

// sqlPreparer matches the interface provided by several types in the standard
// go sql package: *sql.DB, *sql.Tx, and *sql.Conn.
type sqlPreparer interface {
	// PrepareContext creates a prepared statement for later queries or executions.
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Sql returns a wrapper that adapts several standard go sql types to work
// with sqlport.
func Sql(p sqlPreparer) sqlport.Preparer {
	return preparer{p}
}

type preparer struct {
	p sqlPreparer
}

func (w preparer) PrepareContext(ctx context.Context, query string) (sqlport.Statement, error) {
	stmt, err := w.p.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &statement{stmt: stmt}, nil
}

// statement collects bound slots into the ordered argument list the standard
// library expects. The slice grows only to the highest bound slot: an unbound
// slot below it is reported before the statement runs (nil fill must never
// reach the driver as NULL), while unbound trailing slots run with too few
// arguments and the sql package reports the missing parameters.
type statement struct {
	stmt  *sql.Stmt
	args  []interface{}
	bound []bool
}

func (s *statement) BindValue(slot int, value interface{}) error {
	if slot < 1 {
		return fmt.Errorf("sqlport: slot numbering starts at 1, got %d", slot)
	}
	for len(s.args) < slot {
		s.args = append(s.args, nil)
		s.bound = append(s.bound, false)
	}
	s.args[slot-1] = value
	s.bound[slot-1] = true
	return nil
}

func (s *statement) checkBound() error {
	for i, ok := range s.bound {
		if !ok {
			return fmt.Errorf("sqlport: no value bound for slot %d", i+1)
		}
	}
	return nil
}

func (s *statement) ExecContext(ctx context.Context) (sql.Result, error) {
	if err := s.checkBound(); err != nil {
		return nil, err
	}
	return s.stmt.ExecContext(ctx, s.args...)
}

func (s *statement) QueryContext(ctx context.Context) (sqlport.Cursor, error) {
	if err := s.checkBound(); err != nil {
		return nil, err
	}
	rows, err := s.stmt.QueryContext(ctx, s.args...)
	if err != nil {
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	return &cursor{rows: rows, cols: cols}, nil
}

func (s *statement) Close() error {
	return s.stmt.Close()
}

// cursor adapts *sql.Rows. Each Advance scans the full row into driver-native
// values so ValueAt is a plain index.
type cursor struct {
	rows   *sql.Rows
	cols   []string
	values []interface{}
	err    error
}

func (c *cursor) ColumnCount() int {
	return len(c.cols)
}

func (c *cursor) ColumnName(i int) string {
	return c.cols[i]
}

func (c *cursor) Advance() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}
	values := make([]interface{}, len(c.cols))
	ptrs := make([]interface{}, len(c.cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		c.err = err
		return false
	}
	c.values = values
	return true
}

func (c *cursor) ValueAt(i int) interface{} {
	return c.values[i]
}

func (c *cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *cursor) Close() error {
	return c.rows.Close()
}
