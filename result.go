package sqlport

// Result is a fully materialized, driver-independent query result. Columns
// keeps the source order and may contain duplicates; every row has exactly
// one portable value per column. A Result holds no external resources.
type Result struct {
	Columns []string
	Rows    [][]interface{}
}

// AsResult drains cur into a Result, normalizing every value. The cursor is
// consumed to exhaustion in a single pass; it is not closed here, since the
// caller owns its lifecycle. On any error, iteration or normalization, no
// partial result is returned.
func AsResult(cur Cursor) (*Result, error) {
	cols := make([]string, cur.ColumnCount())
	for i := range cols {
		cols[i] = cur.ColumnName(i)
	}

	rows := [][]interface{}{}
	for cur.Advance() {
		row := make([]interface{}, len(cols))
		for i := range cols {
			v, err := Normalize(cur.ValueAt(i))
			if err != nil {
				return nil, err
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return &Result{Columns: cols, Rows: rows}, nil
}
