// Package table implements the in-memory tabular data model and its two wire
// representations: the JSON table format used by scoring request/response
// bodies, and the CSV format used for blob exchange in batch mode.
package table

import (
	"fmt"
	"time"
)

// Table is rectangular data: an ordered list of column names and rows of
// positionally aligned scalar values. Supported scalar types are string,
// the integer kinds, float32/float64, bool, time.Time, one-dimensional
// numeric slices, and nil for missing values. An empty table has zero rows
// but a defined column list.
type Table struct {
	Columns []string
	Rows    [][]any
}

// New builds a Table and validates its shape.
func New(columns []string, rows [][]any) (Table, error) {
	t := Table{Columns: columns, Rows: rows}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Validate checks the rectangular-shape invariant: unique column names and
// one value per column in every row.
func (t Table) Validate() error {
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if _, dup := seen[c]; dup {
			return &MalformedTableError{Reason: "duplicate column name " + c}
		}
		seen[c] = struct{}{}
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return &MalformedTableError{Reason: rowWidthReason(i, len(row), len(t.Columns))}
		}
	}
	return nil
}

// NumRows returns the number of data rows.
func (t Table) NumRows() int { return len(t.Rows) }

// Equal reports whether two tables have the same columns and the same values.
// Integer kinds are compared after widening to int64, float32 after widening
// to float64, and datetimes by instant so that a UTC-normalized copy compares
// equal to the original.
func (t Table) Equal(o Table) bool {
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		for j := range t.Rows[i] {
			if !valueEqual(t.Rows[i][j], o.Rows[i][j]) {
				return false
			}
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	if ai, ok := asInt64(a); ok {
		bi, ok := asInt64(b)
		return ok && ai == bi
	}
	if af, ok := asFloat64(a); ok {
		bf, ok := asFloat64(b)
		return ok && af == bf
	}
	return a == b
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func rowWidthReason(row, got, want int) string {
	return fmt.Sprintf("row %d has %d values, table has %d columns", row, got, want)
}
