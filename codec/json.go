package codec

import "encoding/json"

// JSON is the default codec. Values round-trip through encoding/json, so
// decoded values use Go's generic JSON shapes (map[string]any, []any,
// float64, string, bool, nil).
type JSON struct{}

func (JSON) Encode(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Decode(b []byte) (any, error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
