package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"azmlclient/table"
)

// parseNameValue splits a "name=value" flag argument.
func parseNameValue(arg string) (string, string, error) {
	name, value, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("expected name=value, got %q", arg)
	}
	return name, value, nil
}

// readInputTables loads each --input name=path.csv flag into a table.
func readInputTables(flags []string) (map[string]table.Table, error) {
	inputs := make(map[string]table.Table, len(flags))
	for _, arg := range flags {
		name, path, err := parseNameValue(arg)
		if err != nil {
			return nil, fmt.Errorf("--input: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", name, err)
		}
		t, err := table.FromCSV(string(data))
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", name, err)
		}
		inputs[name] = t
	}
	return inputs, nil
}

// parseParams converts --param k=v flags into scalar parameters, inferring
// integers, floats and booleans from the value text.
func parseParams(flags []string) (map[string]any, error) {
	params := make(map[string]any, len(flags))
	for _, arg := range flags {
		name, value, err := parseNameValue(arg)
		if err != nil {
			return nil, fmt.Errorf("--param: %w", err)
		}
		params[name] = inferParamValue(value)
	}
	return params, nil
}

func inferParamValue(text string) any {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(text); err == nil {
		return b
	}
	return text
}

// writeOutputTables writes each result table as <name>.csv under dir.
func writeOutputTables(dir string, outputs map[string]table.Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, t := range outputs {
		text, err := table.ToCSV(t)
		if err != nil {
			return fmt.Errorf("output %q: %w", name, err)
		}
		path := filepath.Join(dir, name+".csv")
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("output %q: %w", name, err)
		}
	}
	return nil
}
