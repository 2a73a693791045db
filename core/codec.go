package core

import "encoding/json"

// EncodeFunc serializes an outbound application message into a binary
// payload. Supplied by the consumer; the service only calls it.
type EncodeFunc func(v any) ([]byte, error)

// DecodeFunc parses an inbound binary payload into the consumer's message
// type. A non-nil error marks the payload as undecodable.
type DecodeFunc func(data []byte) (any, error)

// JSONEncode is the default encoder.
func JSONEncode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// JSONDecode is the default decoder. It yields the generic JSON
// representation (map[string]any, []any, ...).
func JSONDecode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
