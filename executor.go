package sqlport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNoHandler     = errors.New("sqlport: nil result handler")
	ErrNotNamed      = errors.New("sqlport: batch requires a named-parameter template")
	ErrQueryNotFound = errors.New("sqlport: no query found for name")
)

// Executor runs SQL templates through the prepare/bind/execute pipeline.
// An Executor is immutable and safe for concurrent use; each invocation owns
// its own prepared statement and cursor.
type Executor struct {
	adapter ParamAdapter
	mappers []QueryMapper
}

// NewExecutor returns an Executor that rewrites named placeholders with
// adapter and resolves q:name query references through mappers, in order.
// A nil adapter emits ? placeholders.
func NewExecutor(adapter ParamAdapter, mappers ...QueryMapper) Executor {
	return Executor{
		adapter: adapter,
		mappers: mappers,
	}
}

// Execute prepares query against p, binds params, and hands the live
// statement to handler. If the template has named parameters it is translated
// first and the extracted names drive binding; otherwise params bind
// positionally. The prepared statement is closed on every exit path, whether
// handler succeeds or any stage fails. Driver errors propagate unchanged.
func (e Executor) Execute(ctx context.Context, p Preparer, query string, params []interface{}, handler ResultHandler) (interface{}, error) {
	if handler == nil {
		return nil, ErrNoHandler
	}
	query, err := lookupQuery(query, e.mappers)
	if err != nil {
		return nil, err
	}

	var names []string
	if HasNamedParameters(query) {
		query, names = Translate(query, e.adapter)
	}

	log.Debugln("calling", query, "with params", params)
	stmt, err := p.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	if err := Bind(stmt, params, names); err != nil {
		return nil, err
	}
	return handler(ctx, stmt)
}

// Query runs a query-shaped template and materializes its rows.
func (e Executor) Query(ctx context.Context, p Preparer, query string, params ...interface{}) (*Result, error) {
	out, err := e.Execute(ctx, p, query, params, func(ctx context.Context, stmt Statement) (interface{}, error) {
		cur, err := stmt.QueryContext(ctx)
		if err != nil {
			return nil, err
		}
		defer cur.Close()
		return AsResult(cur)
	})
	if err != nil {
		return nil, err
	}
	return out.(*Result), nil
}

// Exec runs an update-shaped template and reports the affected row count.
func (e Executor) Exec(ctx context.Context, p Preparer, query string, params ...interface{}) (int64, error) {
	out, err := e.Execute(ctx, p, query, params, func(ctx context.Context, stmt Statement) (interface{}, error) {
		result, err := stmt.ExecContext(ctx)
		if err != nil {
			return nil, err
		}
		return result.RowsAffected()
	})
	if err != nil {
		return 0, err
	}
	return out.(int64), nil
}

// Batch prepares a named-parameter template once and executes it once per
// record, returning the affected row count of each execution. Every record
// should supply every named parameter: slots keep their previous value when a
// later record omits a name. The first failure aborts the batch.
func (e Executor) Batch(ctx context.Context, p Preparer, query string, records []Params) ([]int64, error) {
	query, err := lookupQuery(query, e.mappers)
	if err != nil {
		return nil, err
	}
	if !HasNamedParameters(query) {
		return nil, ErrNotNamed
	}
	query, names := Translate(query, e.adapter)

	log.Debugln("batching", query, "over", len(records), "records")
	stmt, err := p.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	counts := make([]int64, 0, len(records))
	for _, record := range records {
		if err := Bind(stmt, []interface{}{record}, names); err != nil {
			return nil, err
		}
		result, err := stmt.ExecContext(ctx)
		if err != nil {
			return nil, err
		}
		count, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, nil
}

func lookupQuery(query string, mappers []QueryMapper) (string, error) {
	if !strings.HasPrefix(query, "q:") {
		return query, nil
	}
	name := query[2:]
	for _, v := range mappers {
		if q := v.Map(name); q != "" {
			return q, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrQueryNotFound, name)
}
