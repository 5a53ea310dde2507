package table_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"azmlclient/table"
)

func sampleTable() table.Table {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return table.Table{
		Columns: []string{"id", "score", "active", "name", "when"},
		Rows: [][]any{
			{int64(1), 0.5, true, "alice", ts},
			{int64(2), 2.0, false, "bob", ts.Add(time.Hour)},
		},
	}
}

func TestWireRoundTrip_ColumnMode(t *testing.T) {
	tbl := sampleTable()

	w, err := table.ToWire(tbl, table.ColumnMode, false)
	require.NoError(t, err)
	got, err := w.ToTable()
	require.NoError(t, err)

	assert.True(t, tbl.Equal(got), "expected %+v, got %+v", tbl, got)
}

func TestWireRoundTrip_RowMode(t *testing.T) {
	tbl := sampleTable()

	w, err := table.ToWire(tbl, table.RowMode, false)
	require.NoError(t, err)
	got, err := w.ToTable()
	require.NoError(t, err)

	assert.True(t, tbl.Equal(got), "expected %+v, got %+v", tbl, got)
}

func TestWireRoundTrip_ThroughJSON(t *testing.T) {
	tbl := sampleTable()

	for _, mode := range []table.WireMode{table.ColumnMode, table.RowMode} {
		t.Run(mode.String(), func(t *testing.T) {
			w, err := table.ToWire(tbl, mode, false)
			require.NoError(t, err)

			raw, err := json.Marshal(w)
			require.NoError(t, err)

			parsed, err := table.ParseWire(raw, mode, false)
			require.NoError(t, err)
			got, err := parsed.ToTable()
			require.NoError(t, err)

			assert.True(t, tbl.Equal(got), "expected %+v, got %+v", tbl, got)
		})
	}
}

func TestWireRowMode_ColumnMismatch(t *testing.T) {
	t.Run("missing_column", func(t *testing.T) {
		w, err := table.ParseWire([]byte(`[{"a":1,"b":2},{"a":3}]`), table.RowMode, false)
		require.NoError(t, err)

		_, err = w.ToTable()
		var missing *table.MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, 2, missing.Row)
		assert.Equal(t, "b", missing.Column)
	})

	t.Run("unexpected_column", func(t *testing.T) {
		w, err := table.ParseWire([]byte(`[{"a":1},{"a":2,"c":3,"d":4}]`), table.RowMode, false)
		require.NoError(t, err)

		_, err = w.ToTable()
		var unexpected *table.UnexpectedColumnError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, 2, unexpected.Row)
		assert.Equal(t, []string{"c", "d"}, unexpected.Columns)
	})

	t.Run("column_order_from_first_row", func(t *testing.T) {
		w, err := table.ParseWire([]byte(`[{"b":"x","a":1},{"a":2,"b":"y"}]`), table.RowMode, false)
		require.NoError(t, err)

		got, err := w.ToTable()
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, got.Columns)
		require.Len(t, got.Rows, 2)
		assert.Equal(t, []any{"x", int64(1)}, got.Rows[0])
		assert.Equal(t, []any{"y", int64(2)}, got.Rows[1])
	})
}

func TestWireEmptyTable(t *testing.T) {
	empty := table.Table{Columns: []string{"a", "b"}}

	for _, mode := range []table.WireMode{table.ColumnMode, table.RowMode} {
		t.Run(mode.String(), func(t *testing.T) {
			w, err := table.ToWire(empty, mode, false)
			require.NoError(t, err)

			got, err := w.ToTable()
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, got.Columns)
			assert.Zero(t, got.NumRows())
		})
	}

	t.Run("nil_columns_and_rows", func(t *testing.T) {
		w, err := table.ToWire(table.Table{}, table.ColumnMode, false)
		require.NoError(t, err)
		got, err := w.ToTable()
		require.NoError(t, err)
		assert.Empty(t, got.Columns)
		assert.Zero(t, got.NumRows())
	})

	t.Run("parsed_empty_row_table_has_no_columns", func(t *testing.T) {
		w, err := table.ParseWire([]byte(`[]`), table.RowMode, false)
		require.NoError(t, err)
		got, err := w.ToTable()
		require.NoError(t, err)
		assert.Empty(t, got.Columns)
		assert.Zero(t, got.NumRows())
	})
}

func TestWireOutputWrapped(t *testing.T) {
	tbl := table.Table{Columns: []string{"a"}, Rows: [][]any{{int64(7)}}}

	w, err := table.ToWire(tbl, table.ColumnMode, true)
	require.NoError(t, err)
	raw, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"table","value":{"ColumnNames":["a"],"Values":[[7]]}}`, string(raw))

	t.Run("parse", func(t *testing.T) {
		parsed, err := table.ParseWire(raw, table.ColumnMode, true)
		require.NoError(t, err)
		got, err := parsed.ToTable()
		require.NoError(t, err)
		assert.True(t, tbl.Equal(got))
	})

	t.Run("wrong_type", func(t *testing.T) {
		_, err := table.ParseWire([]byte(`{"type":"scalar","value":3}`), table.ColumnMode, true)
		var wrongType *table.UnsupportedWireTypeError
		require.ErrorAs(t, err, &wrongType)
		assert.Equal(t, "scalar", wrongType.Type)
	})

	t.Run("missing_envelope_fields", func(t *testing.T) {
		_, err := table.ParseWire([]byte(`{"value":{}}`), table.ColumnMode, true)
		var malformed *table.MalformedWireTableError
		require.ErrorAs(t, err, &malformed)
	})
}

func TestWireColumnMode_Malformed(t *testing.T) {
	for name, raw := range map[string]string{
		"missing_values":  `{"ColumnNames":["a"]}`,
		"missing_columns": `{"Values":[[1]]}`,
		"not_an_object":   `[1,2,3]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := table.ParseWire([]byte(raw), table.ColumnMode, false)
			var malformed *table.MalformedWireTableError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestToWire_UnsupportedValue(t *testing.T) {
	tbl := table.Table{Columns: []string{"a"}, Rows: [][]any{{struct{}{}}}}

	_, err := table.ToWire(tbl, table.ColumnMode, false)
	var unsupported *table.UnsupportedValueTypeError
	require.ErrorAs(t, err, &unsupported)
}

func TestToWire_NumericArrayFlattens(t *testing.T) {
	tbl := table.Table{Columns: []string{"v"}, Rows: [][]any{{[]float64{1.5, 2.5}}}}

	w, err := table.ToWire(tbl, table.ColumnMode, false)
	require.NoError(t, err)
	raw, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ColumnNames":["v"],"Values":[[[1.5,2.5]]]}`, string(raw))
}

func TestWireJSON_NativeScalars(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tbl := table.Table{
		Columns: []string{"n", "f", "b", "ts"},
		Rows:    [][]any{{int64(3), 1.5, true, ts}},
	}

	w, err := table.ToWire(tbl, table.ColumnMode, false)
	require.NoError(t, err)
	raw, err := json.Marshal(w)
	require.NoError(t, err)

	// Numbers and bools stay native; only datetimes become strings.
	assert.JSONEq(t, `{"ColumnNames":["n","f","b","ts"],"Values":[[3,1.5,true,"2024-06-01T12:00:00Z"]]}`, string(raw))
}
