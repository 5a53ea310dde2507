package azmlclient

import (
	"encoding/json"
	"strings"

	"azmlclient/blob"
	"azmlclient/table"
)

type syncRequestBody struct {
	Inputs           map[string]table.WireTable `json:"Inputs"`
	GlobalParameters map[string]any             `json:"GlobalParameters"`
}

type batchRequestBody struct {
	Inputs           map[string]blob.Reference `json:"Inputs"`
	GlobalParameters map[string]any            `json:"GlobalParameters"`
	Outputs          map[string]blob.Reference `json:"Outputs"`
}

func wireParams(params Params) (map[string]any, error) {
	resolved, err := params.resolve()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(resolved))
	for name, v := range resolved {
		wired, err := table.JSONValue(v)
		if err != nil {
			return nil, err
		}
		out[name] = wired
	}
	return out, nil
}

// BuildSyncBody assembles the JSON body of a synchronous execution request.
// Inputs are inlined as column-oriented wire tables.
func BuildSyncBody(inputs map[string]table.Table, params Params) (string, error) {
	wired := make(map[string]table.WireTable, len(inputs))
	for name, t := range inputs {
		w, err := table.ToWire(t, table.ColumnMode, false)
		if err != nil {
			return "", err
		}
		wired[name] = w
	}
	globals, err := wireParams(params)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(syncRequestBody{Inputs: wired, GlobalParameters: globals})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// BuildBatchBody assembles the JSON body of a batch job request. Inputs and
// outputs are passed by blob reference.
func BuildBatchBody(inputRefs map[string]blob.Reference, params Params, outputRefs map[string]blob.Reference) (string, error) {
	globals, err := wireParams(params)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(batchRequestBody{
		Inputs:           inputRefs,
		GlobalParameters: globals,
		Outputs:          outputRefs,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeRequestBody reads a synchronous request body back into its input
// tables and global parameters. Useful for testing services against recorded
// requests.
func DecodeRequestBody(body string) (map[string]table.Table, map[string]any, error) {
	var raw struct {
		Inputs           map[string]json.RawMessage `json:"Inputs"`
		GlobalParameters map[string]any             `json:"GlobalParameters"`
	}
	// Number-aware so integer parameters survive as integers, matching the
	// inputs path.
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, err
	}
	inputs := make(map[string]table.Table, len(raw.Inputs))
	for name, msg := range raw.Inputs {
		w, err := table.ParseWire(msg, table.ColumnMode, false)
		if err != nil {
			return nil, nil, err
		}
		t, err := w.ToTable()
		if err != nil {
			return nil, nil, err
		}
		inputs[name] = t
	}
	return inputs, raw.GlobalParameters, nil
}
