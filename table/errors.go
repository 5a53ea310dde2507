package table

import (
	"fmt"
	"strings"
)

// MalformedTableError indicates an in-memory table violating the rectangular
// shape invariant.
type MalformedTableError struct {
	Reason string
}

func (e *MalformedTableError) Error() string { return "malformed table: " + e.Reason }

// UnsupportedValueTypeError indicates a table or parameter value outside the
// closed scalar set (string, integer kinds, floats, bool, time.Time, 1-D
// numeric slices, nil).
type UnsupportedValueTypeError struct {
	Value any
}

func (e *UnsupportedValueTypeError) Error() string {
	return fmt.Sprintf("value of type %T is not serializable", e.Value)
}

// MalformedWireTableError indicates a wire table that does not match the
// declared shape (for example a column-oriented table missing ColumnNames or
// Values).
type MalformedWireTableError struct {
	Reason string
}

func (e *MalformedWireTableError) Error() string { return "malformed wire table: " + e.Reason }

// UnsupportedWireTypeError indicates an output-wrapped wire object whose type
// field is not "table".
type UnsupportedWireTypeError struct {
	Type string
}

func (e *UnsupportedWireTypeError) Error() string {
	return fmt.Sprintf("can only read table objects, found type=%q", e.Type)
}

// MissingColumnError indicates a row-oriented wire table whose row lacks a
// column present in the first row. Row numbering is 1-based, matching the
// position in the wire sequence.
type MissingColumnError struct {
	Row    int
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q is missing in row #%d", e.Column, e.Row)
}

// UnexpectedColumnError indicates a row-oriented wire table whose row
// introduces columns absent from the first row.
type UnexpectedColumnError struct {
	Row     int
	Columns []string
}

func (e *UnexpectedColumnError) Error() string {
	return fmt.Sprintf("columns are present in row #%d but not in the first row: %s",
		e.Row, strings.Join(e.Columns, ", "))
}

// NotSingleRowError indicates a parameter table that does not have exactly
// one row.
type NotSingleRowError struct {
	Rows int
}

func (e *NotSingleRowError) Error() string {
	return fmt.Sprintf("parameter table must have exactly one row, found %d", e.Rows)
}
