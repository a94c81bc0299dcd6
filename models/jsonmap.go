package models

import (
	"encoding/json"
	"fmt"
)

// JSONMap type for JSONB fields
type JSONMap map[string]interface{}

// Scan implements sql.Scanner interface for JSONMap
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONMap)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Value implements driver.Valuer interface for JSONMap
func (j JSONMap) Value() (interface{}, error) {
	if j == nil {
		return "{}", nil
	}
	return json.Marshal(j)
}

// ScalarMap coerces every value in m to one of the four scalar kinds an
// audit snapshot may carry (string, float64, bool, nil). Anything else is
// stringified so the snapshot stays displayable.
func ScalarMap(m map[string]interface{}) JSONMap {
	if m == nil {
		return nil
	}
	out := make(JSONMap, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil, string, bool, float64:
			out[k] = t
		case int:
			out[k] = float64(t)
		case int64:
			out[k] = float64(t)
		case float32:
			out[k] = float64(t)
		default:
			out[k] = fmt.Sprintf("%v", t)
		}
	}
	return out
}
