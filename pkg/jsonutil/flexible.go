package jsonutil

import (
	"encoding/json"
	"fmt"
)

// FlexibleString converts a json.RawMessage to a string, tolerating
// backends that return numbers or booleans where strings are expected.
// Returns empty string for null/empty.
func FlexibleString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	return string(raw)
}

// rowListKeys are envelope keys REST backends commonly wrap row arrays in.
var rowListKeys = []string{"data", "records", "items", "results"}

// DecodeRows extracts a row list from a JSON payload. Accepts a top-level
// array, a single object, or an object wrapping the array under a common
// envelope key.
func DecodeRows(raw []byte) ([]map[string]any, error) {
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err == nil {
		return rows, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("response is neither array nor object: %w", err)
	}

	for _, key := range rowListKeys {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &rows); err == nil {
			return rows, nil
		}
	}

	// Single-object response: treat it as one row.
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode object row: %w", err)
	}
	return []map[string]any{row}, nil
}
