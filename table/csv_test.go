package table_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"azmlclient/table"
)

func TestCSVRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	tbl := table.Table{
		Columns: []string{"when", "count", "ratio", "label", "blank"},
		Rows: [][]any{
			{ts, int64(10), 0.25, "first", nil},
			{ts.Add(time.Minute), int64(-3), 2.0, "second, with comma", nil},
		},
	}

	text, err := table.ToCSV(tbl)
	require.NoError(t, err)
	got, err := table.FromCSV(text)
	require.NoError(t, err)

	assert.True(t, tbl.Equal(got), "expected %+v, got %+v", tbl, got)
}

func TestToCSV_Format(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 250_000_000, time.UTC)
	tbl := table.Table{
		Columns: []string{"ts", "v"},
		Rows:    [][]any{{ts, 1.5}},
	}

	text, err := table.ToCSV(tbl)
	require.NoError(t, err)

	// Milliseconds are zeroed by the format, not rounded.
	assert.Equal(t, "ts,v\n2024-01-02T03:04:05.000+0000,1.5\n", text)
}

func TestCSVRoundTrip_DatetimeTruncatedToSeconds(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 987_000_000, time.UTC)
	tbl := table.Table{Columns: []string{"ts"}, Rows: [][]any{{ts}}}

	text, err := table.ToCSV(tbl)
	require.NoError(t, err)
	got, err := table.FromCSV(text)
	require.NoError(t, err)

	require.Len(t, got.Rows, 1)
	assert.Equal(t, ts.Truncate(time.Second), got.Rows[0][0])
}

func TestFromCSV_DatetimeNormalizedToUTC(t *testing.T) {
	got, err := table.FromCSV("ts\n2024-01-02T09:00:00.000+0200\n2024-01-02T07:00:00\n")
	require.NoError(t, err)

	require.Len(t, got.Rows, 2)
	want := time.Date(2024, 1, 2, 7, 0, 0, 0, time.UTC)
	for i, row := range got.Rows {
		ts, ok := row[0].(time.Time)
		require.True(t, ok, "row %d is %T", i, row[0])
		assert.True(t, want.Equal(ts))
		assert.Equal(t, time.UTC, ts.Location())
	}
}

func TestFromCSV_Inference(t *testing.T) {
	t.Run("one_bad_date_degrades_whole_column", func(t *testing.T) {
		got, err := table.FromCSV("ts\n2024-01-02T00:00:00\nnot a date\n")
		require.NoError(t, err)

		assert.Equal(t, "2024-01-02T00:00:00", got.Rows[0][0])
		assert.Equal(t, "not a date", got.Rows[1][0])
	})

	t.Run("integers_with_nulls", func(t *testing.T) {
		got, err := table.FromCSV("n\n1\n\n3\n")
		require.NoError(t, err)

		assert.Equal(t, []any{int64(1)}, got.Rows[0])
		assert.Equal(t, []any{nil}, got.Rows[1])
		assert.Equal(t, []any{int64(3)}, got.Rows[2])
	})

	t.Run("mixed_int_and_float_is_float", func(t *testing.T) {
		got, err := table.FromCSV("x\n1\n2.5\n")
		require.NoError(t, err)

		assert.Equal(t, []any{float64(1)}, got.Rows[0])
		assert.Equal(t, []any{2.5}, got.Rows[1])
	})

	t.Run("booleans", func(t *testing.T) {
		got, err := table.FromCSV("b\nTrue\nfalse\n")
		require.NoError(t, err)

		assert.Equal(t, []any{true}, got.Rows[0])
		assert.Equal(t, []any{false}, got.Rows[1])
	})

	t.Run("all_null_column", func(t *testing.T) {
		got, err := table.FromCSV("a,b\nx,\ny,\n")
		require.NoError(t, err)

		assert.Equal(t, []any{"x", nil}, got.Rows[0])
		assert.Equal(t, []any{"y", nil}, got.Rows[1])
	})
}

func TestFromCSV_StripsByteOrderMark(t *testing.T) {
	got, err := table.FromCSV("\uFEFFid,name\n1,a\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, got.Columns)
	require.Equal(t, 1, got.NumRows())
	assert.Equal(t, []any{int64(1), "a"}, got.Rows[0])
}

func TestFromCSV_HeaderOnly(t *testing.T) {
	got, err := table.FromCSV("a,b\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, got.Columns)
	assert.Zero(t, got.NumRows())
}

func TestToCSV_EmptyTable(t *testing.T) {
	tbl := table.Table{Columns: []string{"a", "b"}}

	text, err := table.ToCSV(tbl)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", text)

	got, err := table.FromCSV(text)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(got))
}
