package table

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// csvTimeFormat renders a datetime for the blob CSV format: ISO-8601 with the
// milliseconds deliberately zeroed. Sub-second fidelity is a documented
// non-goal of the CSV exchange format.
func csvTimeFormat(ts time.Time) string {
	return ts.Format("2006-01-02T15:04:05") + ".000" + ts.Format("-0700")
}

// ToCSV serializes a table to CSV text: comma delimiter, '.' decimal
// separator, empty string for nulls, header row, no index column, LF line
// endings. Datetime cells use ISO-8601 with zeroed milliseconds.
func ToCSV(t Table) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(t.Columns); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	cells := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for j, v := range row {
			s, err := renderCell(v, csvTimeFormat)
			if err != nil {
				return "", err
			}
			cells[j] = s
		}
		if err := w.Write(cells); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return b.String(), nil
}

// FromCSV parses CSV text into a table, inferring column types.
//
// Inference is column-wise and best-effort: a column where every non-empty
// cell parses as an integer becomes int64, then float64, then bool are tried;
// a column that stays textual is a datetime candidate, and becomes time.Time
// only if every non-empty cell parses — a single malformed date leaves the
// whole column as strings. Inferred datetimes are normalized to UTC: naive
// values are stamped UTC, offset values are converted. Empty cells are null
// in every column type.
func FromCSV(text string) (Table, error) {
	text = strings.TrimPrefix(text, "\uFEFF")
	r := csv.NewReader(strings.NewReader(text))
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return Table{Columns: []string{}}, nil
	}
	columns := records[0]
	raw := records[1:]

	rows := make([][]any, len(raw))
	for i := range raw {
		rows[i] = make([]any, len(columns))
	}
	for j := range columns {
		cells := make([]string, len(raw))
		for i, rec := range raw {
			cells[i] = rec[j]
		}
		typed := inferColumn(cells)
		for i := range raw {
			rows[i][j] = typed[i]
		}
	}
	return Table{Columns: columns, Rows: rows}, nil
}

// inferColumn types a whole column at once, mirroring dataframe-style dtype
// inference rather than per-cell parsing.
func inferColumn(cells []string) []any {
	nonEmpty := 0
	for _, c := range cells {
		if c != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return make([]any, len(cells)) // all-null column
	}
	if vals, ok := parseAll(cells, func(s string) (any, error) {
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err
	}); ok {
		return vals
	}
	if vals, ok := parseAll(cells, func(s string) (any, error) {
		f, err := strconv.ParseFloat(s, 64)
		return f, err
	}); ok {
		return vals
	}
	if vals, ok := parseAll(cells, parseBoolCell); ok {
		return vals
	}
	// Textual column: datetime candidate.
	if vals, ok := parseAll(cells, parseDatetimeCell); ok {
		return vals
	}
	out := make([]any, len(cells))
	for i, c := range cells {
		if c == "" {
			out[i] = nil
		} else {
			out[i] = c
		}
	}
	return out
}

// parseAll applies parse to every non-empty cell; it succeeds only when the
// whole column parses. Empty cells become nil.
func parseAll(cells []string, parse func(string) (any, error)) ([]any, bool) {
	out := make([]any, len(cells))
	for i, c := range cells {
		if c == "" {
			out[i] = nil
			continue
		}
		v, err := parse(c)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func parseBoolCell(s string) (any, error) {
	switch s {
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	}
	return nil, fmt.Errorf("not a bool: %q", s)
}

// datetimeLayouts lists the accepted ISO-8601 shapes, with and without
// fractional seconds, timezone offset, and 'T' separator.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseDatetimeCell(s string) (any, error) {
	for _, layout := range datetimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			// Naive layouts parse as UTC already; offset layouts convert.
			return ts.UTC(), nil
		}
	}
	return nil, fmt.Errorf("not a datetime: %q", s)
}
