package azmlclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"azmlclient/table"
)

func TestBuildSyncBody(t *testing.T) {
	t.Run("params_from_table", func(t *testing.T) {
		paramTable, err := table.New([]string{"a", "b"}, [][]any{{int64(1), "x"}})
		require.NoError(t, err)
		body, err := BuildSyncBody(nil, ParamsFromTable(paramTable))
		require.NoError(t, err)
		assert.JSONEq(t, `{"Inputs":{},"GlobalParameters":{"a":1,"b":"x"}}`, body)
	})

	t.Run("params_from_multi_row_table_rejected", func(t *testing.T) {
		paramTable, err := table.New([]string{"a"}, [][]any{{int64(1)}, {int64(2)}})
		require.NoError(t, err)
		_, err = BuildSyncBody(nil, ParamsFromTable(paramTable))
		var notSingle *table.NotSingleRowError
		require.ErrorAs(t, err, &notSingle)
	})

	t.Run("both_param_forms_rejected", func(t *testing.T) {
		paramTable, err := table.New([]string{"a"}, [][]any{{int64(1)}})
		require.NoError(t, err)
		_, err = BuildSyncBody(nil, Params{Map: map[string]any{"a": 1}, Table: &paramTable})
		var invalid *InvalidParameterTypeError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("no_params_means_empty_object", func(t *testing.T) {
		body, err := BuildSyncBody(nil, Params{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"Inputs":{},"GlobalParameters":{}}`, body)
	})
}

func TestDecodeRequestBody(t *testing.T) {
	in, err := table.New([]string{"id", "score"}, [][]any{{int64(1), 0.5}})
	require.NoError(t, err)
	body, err := BuildSyncBody(map[string]table.Table{"in1": in}, ParamsFromMap(map[string]any{"k": "v"}))
	require.NoError(t, err)

	inputs, params, err := DecodeRequestBody(body)
	require.NoError(t, err)
	require.Contains(t, inputs, "in1")
	assert.True(t, in.Equal(inputs["in1"]), "expected %+v, got %+v", in, inputs["in1"])
	assert.Equal(t, map[string]any{"k": "v"}, params)
}

func TestDecodeRequestBody_NumericParamsKeepLiterals(t *testing.T) {
	_, params, err := DecodeRequestBody(`{"Inputs":{},"GlobalParameters":{"n":3,"ratio":0.5}}`)
	require.NoError(t, err)
	assert.Equal(t, json.Number("3"), params["n"])
	assert.Equal(t, json.Number("0.5"), params["ratio"])
}
