package table

import "sort"

// ParamsFromTable converts a single-row parameter table into a name→value
// map. Tables with zero or more than one row are rejected.
func ParamsFromTable(t Table) (map[string]any, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if len(t.Rows) != 1 {
		return nil, &NotSingleRowError{Rows: len(t.Rows)}
	}
	params := make(map[string]any, len(t.Columns))
	for i, col := range t.Columns {
		params[col] = t.Rows[0][i]
	}
	return params, nil
}

// ParamsToTable converts a name→value map into a single-row table. Columns
// are sorted by name so the result is deterministic.
func ParamsToTable(params map[string]any) Table {
	columns := make([]string, 0, len(params))
	for name := range params {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	row := make([]any, len(columns))
	for i, name := range columns {
		row[i] = params[name]
	}
	return Table{Columns: columns, Rows: [][]any{row}}
}
