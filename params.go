package azmlclient

import "azmlclient/table"

// Params carries the global parameters of an execution, given either as a
// plain map or as a single-row table. Setting both is an error; setting
// neither means no parameters.
type Params struct {
	Map   map[string]any
	Table *table.Table
}

// ParamsFromMap wraps an already scalar parameter map.
func ParamsFromMap(m map[string]any) Params {
	return Params{Map: m}
}

// ParamsFromTable wraps a single-row parameter table.
func ParamsFromTable(t table.Table) Params {
	return Params{Table: &t}
}

func (p Params) resolve() (map[string]any, error) {
	if p.Map != nil && p.Table != nil {
		return nil, &InvalidParameterTypeError{}
	}
	if p.Table != nil {
		return table.ParamsFromTable(*p.Table)
	}
	if p.Map == nil {
		return map[string]any{}, nil
	}
	return p.Map, nil
}
