package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// WireMode selects between the two JSON table encodings. The mode is always
// passed explicitly; the codec never sniffs the shape of incoming data, which
// would be ambiguous for single-row, single-column tables.
type WireMode int

const (
	// ColumnMode is the compact encoding: {"ColumnNames": [...], "Values": [[...]]}.
	ColumnMode WireMode = iota
	// RowMode is the verbose encoding: a JSON array of name→value objects,
	// one per row, with column order taken from the first object.
	RowMode
)

func (m WireMode) String() string {
	if m == RowMode {
		return "row"
	}
	return "column"
}

// WireRecord is one row of a row-oriented wire table, with field order
// preserved.
type WireRecord struct {
	Names  []string
	Values []any
}

// WireTable is the in-memory form of a JSON wire table. Column-oriented
// tables populate Columns/Values, row-oriented tables populate Records.
// Wrapped marks the output variant {"type": "table", "value": ...} produced
// by the remote service.
type WireTable struct {
	Mode    WireMode
	Wrapped bool

	Columns []string
	Values  [][]any

	Records []WireRecord
}

// ToWire converts a table to its wire form. Values are kept as native
// scalars; validation rejects any value outside the supported set. Set
// outputWrap to mimic a service response, never for request inputs.
func ToWire(t Table, mode WireMode, outputWrap bool) (WireTable, error) {
	if err := t.Validate(); err != nil {
		return WireTable{}, err
	}
	for _, row := range t.Rows {
		for _, v := range row {
			if err := checkValue(v); err != nil {
				return WireTable{}, err
			}
		}
	}
	w := WireTable{Mode: mode, Wrapped: outputWrap}
	switch mode {
	case RowMode:
		w.Records = make([]WireRecord, len(t.Rows))
		for i, row := range t.Rows {
			w.Records[i] = WireRecord{Names: t.Columns, Values: row}
		}
		w.Columns = t.Columns
	default:
		w.Columns = t.Columns
		w.Values = t.Rows
		// A zero-row table is naturally built with nil Rows; ToTable uses
		// nil Values as the missing-key signal for parsed wire data, so
		// normalize here.
		if w.Columns == nil {
			w.Columns = []string{}
		}
		if w.Values == nil {
			w.Values = [][]any{}
		}
	}
	return w, nil
}

// ToTable converts a wire table back to a Table.
//
// Row mode takes the column order from the first record; every later record
// must carry exactly the first record's columns. Column mode requires both
// ColumnNames and Values. Non-empty tables are reconstructed by dumping the
// values through a canonical CSV buffer and re-parsing it, so type inference
// and datetime localization are shared with the CSV path instead of being
// duplicated here.
func (w WireTable) ToTable() (Table, error) {
	var columns []string
	var values [][]any

	switch w.Mode {
	case RowMode:
		if len(w.Records) == 0 {
			cols := w.Columns
			if cols == nil {
				cols = []string{}
			}
			return Table{Columns: cols}, nil
		}
		columns = w.Records[0].Names
		values = make([][]any, len(w.Records))
		for i, rec := range w.Records {
			row, err := alignRecord(rec, columns, i+1)
			if err != nil {
				return Table{}, err
			}
			values[i] = row
		}
	default:
		if w.Columns == nil || w.Values == nil {
			return Table{}, &MalformedWireTableError{
				Reason: "column-oriented table requires both ColumnNames and Values",
			}
		}
		columns = w.Columns
		values = w.Values
	}

	if len(values) == 0 {
		return Table{Columns: columns}, nil
	}
	buf, err := canonicalCSV(columns, values)
	if err != nil {
		return Table{}, err
	}
	return FromCSV(buf)
}

// alignRecord reorders one record's values to the reference columns,
// reporting missing and unexpected fields. row is 1-based for messages.
func alignRecord(rec WireRecord, columns []string, row int) ([]any, error) {
	fields := make(map[string]any, len(rec.Names))
	for i, name := range rec.Names {
		fields[name] = rec.Values[i]
	}
	out := make([]any, len(columns))
	for i, col := range columns {
		v, ok := fields[col]
		if !ok {
			return nil, &MissingColumnError{Row: row, Column: col}
		}
		out[i] = v
		delete(fields, col)
	}
	if len(fields) > 0 {
		extra := make([]string, 0, len(fields))
		for name := range fields {
			extra = append(extra, name)
		}
		sort.Strings(extra)
		return nil, &UnexpectedColumnError{Row: row, Columns: extra}
	}
	return out, nil
}

// canonicalCSV dumps columns and value rows in a strict dialect: every field
// double-quoted, comma-delimited, LF-terminated. The buffer only ever feeds
// FromCSV, which treats quoting uniformly.
func canonicalCSV(columns []string, values [][]any) (string, error) {
	var b strings.Builder
	writeRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(c, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	writeRow(columns)
	cells := make([]string, len(columns))
	for _, row := range values {
		if len(row) != len(columns) {
			return "", &MalformedWireTableError{
				Reason: fmt.Sprintf("value row has %d entries, table has %d columns", len(row), len(columns)),
			}
		}
		for j, v := range row {
			s, err := renderCell(v, func(ts time.Time) string { return ts.Format(time.RFC3339Nano) })
			if err != nil {
				return "", err
			}
			cells[j] = s
		}
		writeRow(cells)
	}
	return b.String(), nil
}

// MarshalJSON renders the wire table in its JSON form, applying the scalar
// serialization rules (native numbers and bools, ISO-8601 datetimes).
func (w WireTable) MarshalJSON() ([]byte, error) {
	inner, err := w.marshalUnwrapped()
	if err != nil {
		return nil, err
	}
	if !w.Wrapped {
		return inner, nil
	}
	return json.Marshal(struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}{Type: "table", Value: inner})
}

func (w WireTable) marshalUnwrapped() ([]byte, error) {
	switch w.Mode {
	case RowMode:
		var b bytes.Buffer
		b.WriteByte('[')
		for i, rec := range w.Records {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := marshalRecord(&b, rec); err != nil {
				return nil, err
			}
		}
		b.WriteByte(']')
		return b.Bytes(), nil
	default:
		values := make([][]any, len(w.Values))
		for i, row := range w.Values {
			values[i] = make([]any, len(row))
			for j, v := range row {
				jv, err := JSONValue(v)
				if err != nil {
					return nil, err
				}
				values[i][j] = jv
			}
		}
		return json.Marshal(struct {
			ColumnNames []string `json:"ColumnNames"`
			Values      [][]any  `json:"Values"`
		}{ColumnNames: w.Columns, Values: values})
	}
}

// marshalRecord writes one row object preserving field order, which the
// standard map marshaller would not.
func marshalRecord(b *bytes.Buffer, rec WireRecord) error {
	b.WriteByte('{')
	for i, name := range rec.Names {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		b.Write(key)
		b.WriteByte(':')
		jv, err := JSONValue(rec.Values[i])
		if err != nil {
			return err
		}
		val, err := json.Marshal(jv)
		if err != nil {
			return err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return nil
}

// ParseWire decodes raw JSON into a WireTable of the given mode. When
// outputWrapped is set the payload must carry {"type": "table", "value": ...}
// as produced by the remote service. Numbers are decoded as json.Number so
// the original literal survives the CSV round trip (1 stays an integer,
// 2.0 stays a float).
func ParseWire(raw []byte, mode WireMode, outputWrapped bool) (WireTable, error) {
	if outputWrapped {
		var envelope struct {
			Type  *string         `json:"type"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return WireTable{}, &MalformedWireTableError{Reason: "output object is not valid JSON: " + err.Error()}
		}
		if envelope.Type == nil || envelope.Value == nil {
			return WireTable{}, &MalformedWireTableError{
				Reason: "output object should have 'type' and 'value' fields",
			}
		}
		if *envelope.Type != "table" {
			return WireTable{}, &UnsupportedWireTypeError{Type: *envelope.Type}
		}
		w, err := ParseWire(envelope.Value, mode, false)
		if err != nil {
			return WireTable{}, err
		}
		w.Wrapped = true
		return w, nil
	}

	switch mode {
	case RowMode:
		var rows []json.RawMessage
		if err := json.Unmarshal(raw, &rows); err != nil {
			return WireTable{}, &MalformedWireTableError{Reason: "row-oriented table is not a JSON array: " + err.Error()}
		}
		w := WireTable{Mode: RowMode, Records: make([]WireRecord, len(rows))}
		for i, row := range rows {
			rec, err := parseOrderedObject(row)
			if err != nil {
				return WireTable{}, &MalformedWireTableError{
					Reason: fmt.Sprintf("row #%d: %v", i+1, err),
				}
			}
			w.Records[i] = rec
		}
		if len(w.Records) > 0 {
			w.Columns = w.Records[0].Names
		}
		return w, nil
	default:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return WireTable{}, &MalformedWireTableError{Reason: "column-oriented table is not a JSON object: " + err.Error()}
		}
		colRaw, hasCols := fields["ColumnNames"]
		valRaw, hasVals := fields["Values"]
		if !hasCols || !hasVals {
			return WireTable{}, &MalformedWireTableError{
				Reason: "column-oriented table requires both ColumnNames and Values",
			}
		}
		w := WireTable{Mode: ColumnMode}
		if err := json.Unmarshal(colRaw, &w.Columns); err != nil {
			return WireTable{}, &MalformedWireTableError{Reason: "ColumnNames: " + err.Error()}
		}
		if err := decodeNumberAware(valRaw, &w.Values); err != nil {
			return WireTable{}, &MalformedWireTableError{Reason: "Values: " + err.Error()}
		}
		if w.Columns == nil {
			w.Columns = []string{}
		}
		if w.Values == nil {
			w.Values = [][]any{}
		}
		return w, nil
	}
}

// parseOrderedObject decodes one JSON object keeping key order, which the
// row-oriented format relies on for column ordering.
func parseOrderedObject(raw json.RawMessage) (WireRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return WireRecord{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return WireRecord{}, fmt.Errorf("expected a JSON object, found %v", tok)
	}
	var rec WireRecord
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return WireRecord{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return WireRecord{}, fmt.Errorf("expected an object key, found %v", keyTok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return WireRecord{}, err
		}
		rec.Names = append(rec.Names, key)
		rec.Values = append(rec.Values, v)
	}
	if _, err := dec.Token(); err != nil {
		return WireRecord{}, err
	}
	return rec, nil
}

func decodeNumberAware(raw json.RawMessage, target any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(target)
}
