package sqlport

import (
	"fmt"
	"reflect"
	"testing"
)

func TestHasNamedParameters(t *testing.T) {
	values := map[string]bool{
		"select * from product":                            false,
		"select * from product where id = ?":               false,
		"select * from product where id = :id":             true,
		"select * from t where a = :x":                     true, //single-letter name
		"update product set name = :name where id = :id":   true,
		"select ':' from product":                          false, //colon not followed by a letter
		"select * from product where id = : id":            false,
		"select * from product where created > '13:00:00'": false, //digits after colon
		"":                                                 false,
		"select a::text from product":                      true, //cast syntax trips the textual scan
	}
	for k, v := range values {
		if got := HasNamedParameters(k); got != v {
			t.Errorf("failed for %s == %v", k, v)
		}
	}
}

func TestTranslate(t *testing.T) {
	type inner struct {
		pa    ParamAdapter
		query string
		names []string
	}
	values := map[string]inner{
		"select * from product where id = :id": {
			nil,
			"select * from product where id = ?",
			[]string{"id"},
		},
		"SELECT * FROM t WHERE a = :x AND b = :x": {
			nil,
			"SELECT * FROM t WHERE a = ? AND b = ?",
			[]string{"x", "x"},
		},
		"update product set name = :name, cost = :cost where id = :id": {
			nil,
			"update product set name = ?, cost = ? where id = ?",
			[]string{"name", "cost", "id"},
		},
		"insert into product(id, name) values(:id, :name)": {
			func(pos int) string { return fmt.Sprintf("$%d", pos) },
			"insert into product(id, name) values($1, $2)",
			[]string{"id", "name"},
		},
		//positional template passes through untouched
		"select * from product where id = ? and name = ?": {
			nil,
			"select * from product where id = ? and name = ?",
			nil,
		},
		"select * from product": {
			nil,
			"select * from product",
			nil,
		},
		//underscores and digits belong to the identifier
		"select * from t where a = :param_1 and b = :p2": {
			nil,
			"select * from t where a = ? and b = ?",
			[]string{"param_1", "p2"},
		},
	}
	for k, v := range values {
		query, names := Translate(k, v.pa)
		if query != v.query || !reflect.DeepEqual(names, v.names) {
			t.Errorf("failed for %s -> (%q, %v), want (%q, %v)", k, query, names, v.query, v.names)
		}
	}
}

func TestTranslateDeterministic(t *testing.T) {
	template := "update product set name = :name where id = :id and name <> :name"
	q1, n1 := Translate(template, nil)
	q2, n2 := Translate(template, nil)
	if q1 != q2 || !reflect.DeepEqual(n1, n2) {
		t.Errorf("translate not deterministic: (%q, %v) vs (%q, %v)", q1, n1, q2, n2)
	}
	if want := []string{"name", "id", "name"}; !reflect.DeepEqual(n1, want) {
		t.Errorf("expected names %v, got %v", want, n1)
	}
}

func TestTranslatePreservesSurroundingText(t *testing.T) {
	template := "select a, b, c from product where id = :id -- trailing comment"
	query, names := Translate(template, nil)
	want := "select a, b, c from product where id = ? -- trailing comment"
	if query != want {
		t.Errorf("expected %q, got %q", want, query)
	}
	if !reflect.DeepEqual(names, []string{"id"}) {
		t.Errorf("expected [id], got %v", names)
	}
}
