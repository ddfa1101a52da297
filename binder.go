package sqlport

import (
	"strings"
)

// Params is a keyed record mapping parameter names to values. Names are
// matched against placeholders case-insensitively.
type Params map[string]interface{}

// Bind fills the slots of an already-prepared statement from params.
//
// When names is empty the statement is positional: element i of params is
// bound to slot i+1. When names is non-empty (the list Translate produced for
// this statement), each keyed record in params is matched against it: every
// slot whose name equals a record key, ignoring case, receives that key's
// value, so a name appearing K times in the template gets the same value in
// all K slots. Record keys that match no slot are ignored. Slots no record
// covers are left unbound; the driver reports those when the statement runs.
//
// Elements of params that are not keyed records are skipped in named mode.
// Bind does no type coercion.
func Bind(stmt Statement, params []interface{}, names []string) error {
	if len(params) == 0 {
		return nil
	}
	if len(names) == 0 {
		for i, v := range params {
			if err := stmt.BindValue(i+1, v); err != nil {
				return err
			}
		}
		return nil
	}
	for _, p := range params {
		record, ok := asRecord(p)
		if !ok {
			continue
		}
		for key, value := range record {
			for i, name := range names {
				if strings.EqualFold(name, key) {
					if err := stmt.BindValue(i+1, value); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func asRecord(p interface{}) (map[string]interface{}, bool) {
	switch r := p.(type) {
	case Params:
		return r, true
	case map[string]interface{}:
		return r, true
	}
	return nil, false
}
