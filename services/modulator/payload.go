package modulator

import (
	"encoding/json"

	"fmdac-go/drivers/fmdac"
)

// decodeJSON converts a bus payload (raw bytes, string or already-decoded
// JSON value) into dst.
func decodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}

func decodeValues(src any) (fmdac.Values, error) {
	if v, ok := src.(fmdac.Values); ok {
		return v, nil
	}
	var v fmdac.Values
	if err := decodeJSON(src, &v); err != nil {
		return nil, err
	}
	return v, nil
}
