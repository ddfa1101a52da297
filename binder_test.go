package sqlport

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
)

// captureStatement records slot bindings and lifecycle calls so tests can
// verify binding order without a live driver.
type captureStatement struct {
	bound    map[int]interface{}
	bindErr  error
	execErr  error
	cursor   Cursor
	queryErr error
	result   sql.Result
	execs    int
	// execBound holds a snapshot of the slot state at each execution.
	execBound []map[int]interface{}
	closed    bool
}

func newCaptureStatement() *captureStatement {
	return &captureStatement{bound: map[int]interface{}{}}
}

func (cs *captureStatement) BindValue(slot int, value interface{}) error {
	if cs.bindErr != nil {
		return cs.bindErr
	}
	cs.bound[slot] = value
	return nil
}

func (cs *captureStatement) ExecContext(ctx context.Context) (sql.Result, error) {
	cs.execs++
	snapshot := make(map[int]interface{}, len(cs.bound))
	for k, v := range cs.bound {
		snapshot[k] = v
	}
	cs.execBound = append(cs.execBound, snapshot)
	if cs.execErr != nil {
		return nil, cs.execErr
	}
	return cs.result, nil
}

func (cs *captureStatement) QueryContext(ctx context.Context) (Cursor, error) {
	if cs.queryErr != nil {
		return nil, cs.queryErr
	}
	return cs.cursor, nil
}

func (cs *captureStatement) Close() error {
	cs.closed = true
	return nil
}

func TestBindPositional(t *testing.T) {
	cs := newCaptureStatement()
	err := Bind(cs, []interface{}{10, "fred", 54.10}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[int]interface{}{1: 10, 2: "fred", 3: 54.10}
	if !reflect.DeepEqual(cs.bound, want) {
		t.Errorf("expected %v, got %v", want, cs.bound)
	}
}

func TestBindEmpty(t *testing.T) {
	cs := newCaptureStatement()
	if err := Bind(cs, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := Bind(cs, []interface{}{}, []string{"id"}); err != nil {
		t.Fatal(err)
	}
	if len(cs.bound) != 0 {
		t.Errorf("expected no bindings, got %v", cs.bound)
	}
}

func TestBindNamed(t *testing.T) {
	type inner struct {
		params []interface{}
		names  []string
		want   map[int]interface{}
	}
	values := map[string]inner{
		"single record": {
			[]interface{}{Params{"id": 7, "name": "fred"}},
			[]string{"name", "id"},
			map[int]interface{}{1: "fred", 2: 7},
		},
		"case-insensitive match": {
			[]interface{}{Params{"Name": "fred"}},
			[]string{"name"},
			map[int]interface{}{1: "fred"},
		},
		"repeated name gets the value in every slot": {
			[]interface{}{Params{"x": 7}},
			[]string{"x", "x"},
			map[int]interface{}{1: 7, 2: 7},
		},
		"unknown key is ignored": {
			[]interface{}{Params{"id": 7, "bogus": true}},
			[]string{"id"},
			map[int]interface{}{1: 7},
		},
		"missing key leaves the slot unbound": {
			[]interface{}{Params{"id": 7}},
			[]string{"id", "name"},
			map[int]interface{}{1: 7},
		},
		"plain map works like a record": {
			[]interface{}{map[string]interface{}{"id": 7}},
			[]string{"id"},
			map[int]interface{}{1: 7},
		},
		"non-record element is skipped": {
			[]interface{}{42, Params{"id": 7}},
			[]string{"id"},
			map[int]interface{}{1: 7},
		},
	}
	for k, v := range values {
		cs := newCaptureStatement()
		if err := Bind(cs, v.params, v.names); err != nil {
			t.Errorf("%s: unexpected error %v", k, err)
			continue
		}
		if !reflect.DeepEqual(cs.bound, v.want) {
			t.Errorf("%s: expected %v, got %v", k, v.want, cs.bound)
		}
	}
}

func TestBindError(t *testing.T) {
	boom := errors.New("bind failed")
	cs := newCaptureStatement()
	cs.bindErr = boom
	if err := Bind(cs, []interface{}{1}, nil); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
	cs = newCaptureStatement()
	cs.bindErr = boom
	if err := Bind(cs, []interface{}{Params{"id": 1}}, []string{"id"}); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}
