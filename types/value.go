package types

import (
	"fmt"
	"time"
)

// Normalize converts values decoded from YAML into the shapes produced
// by encoding/json, which is what the JSON-LD processor expects:
// every number becomes a float64 and every map gets string keys.
func Normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		for key, item := range v {
			v[key] = Normalize(item)
		}
		return v
	case Record:
		return Normalize(map[string]interface{}(v))
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, item := range v {
			m[fmt.Sprint(key)] = Normalize(item)
		}
		return m
	case []interface{}:
		for i, item := range v {
			v[i] = Normalize(item)
		}
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return v
	}
}

// Copy returns a deep copy of a decoded JSON value
func Copy(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		if v == nil {
			return v
		}
		m := make(map[string]interface{}, len(v))
		for key, item := range v {
			m[key] = Copy(item)
		}
		return m
	case Record:
		return Record(Copy(map[string]interface{}(v)).(map[string]interface{}))
	case []interface{}:
		if v == nil {
			return v
		}
		l := make([]interface{}, len(v))
		for i, item := range v {
			l[i] = Copy(item)
		}
		return l
	default:
		return v
	}
}

// CopyMap is Copy for objects
func CopyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	return Copy(m).(map[string]interface{})
}
