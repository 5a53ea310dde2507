package table

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// JSONValue converts a table scalar into a value the standard JSON encoder
// renders natively: numbers stay numbers, bools stay bools, datetimes become
// ISO-8601 strings and 1-D numeric slices are kept as lists.
//
// Bool is resolved before the integer kinds on purpose: the wire contract
// requires booleans to stay booleans even on runtimes whose numeric tower
// treats them as an integer subtype. Keep this ordering.
func JSONValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return x, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, _ := asInt64(x)
		return i, nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		return x, nil
	case json.Number:
		return x, nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case []float64:
		return x, nil
	case []float32:
		out := make([]float64, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return out, nil
	case []int:
		out := make([]int64, len(x))
		for i, n := range x {
			out[i] = int64(n)
		}
		return out, nil
	case []int64:
		return x, nil
	default:
		return nil, &UnsupportedValueTypeError{Value: v}
	}
}

// checkValue validates that v belongs to the supported scalar set without
// converting it.
func checkValue(v any) error {
	_, err := JSONValue(v)
	return err
}

// renderCell produces the textual form of a scalar for a CSV cell.
// formatTime selects the datetime layout (the blob CSV format truncates
// milliseconds, the internal wire buffer keeps full precision).
func renderCell(v any, formatTime func(time.Time) string) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		if x {
			return "True", nil
		}
		return "False", nil
	case json.Number:
		return x.String(), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, _ := asInt64(x)
		return strconv.FormatInt(i, 10), nil
	case float32:
		return formatFloat(float64(x)), nil
	case float64:
		return formatFloat(x), nil
	case time.Time:
		return formatTime(x), nil
	default:
		return "", &UnsupportedValueTypeError{Value: v}
	}
}

// formatFloat renders a float with a decimal point kept even for whole
// values, so that a float column does not silently degrade to integers on
// the next parse.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && s != "NaN" {
		s += ".0"
	}
	return s
}
