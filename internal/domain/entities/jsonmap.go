package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is an open key-value tree stored as a jsonb column. Tender
// requirements, specifications and evaluation criteria arrive as
// semi-structured documents, so the shape cannot be closed down to a
// fixed struct. Accessors below keep optional-field handling explicit
// at call sites instead of scattering type assertions.
type JSONMap map[string]interface{}

// Value implements driver.Valuer for jsonb columns
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for jsonb columns
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}

	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// String returns the string value at key, or "" when absent or not a string
func (m JSONMap) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// StringSlice returns the string list at key, skipping non-string elements
func (m JSONMap) StringSlice(key string) []string {
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Map returns the nested object at key, or nil when absent
func (m JSONMap) Map(key string) JSONMap {
	if v, ok := m[key].(map[string]interface{}); ok {
		return JSONMap(v)
	}
	return nil
}
