package restclient

import "encoding/json"

// Decoder transforms the raw JSON payload of a successful response into a
// typed value. A decoder error surfaces as a DeserializationError; decoders
// that already return one (such as Field) have it passed through unchanged.
type Decoder[T any] func(payload json.RawMessage) (T, error)

// DecodeJSON returns a Decoder that unmarshals the payload into T.
func DecodeJSON[T any]() Decoder[T] {
	return func(payload json.RawMessage) (T, error) {
		var out T
		if err := json.Unmarshal(payload, &out); err != nil {
			var zero T
			return zero, err
		}
		return out, nil
	}
}

// DecodeNone discards the payload. Use it for operations whose success
// responses carry no body, such as deletes answered with HTTP 204.
func DecodeNone(json.RawMessage) (struct{}, error) {
	return struct{}{}, nil
}

// Field returns a Decoder that extracts the named string field from a JSON
// object payload. A missing field or a non-string value yields a
// DeserializationError naming the field.
func Field(name string) Decoder[string] {
	return func(payload json.RawMessage) (string, error) {
		var object map[string]json.RawMessage
		if err := json.Unmarshal(payload, &object); err != nil {
			return "", err
		}

		raw, ok := object[name]
		if !ok {
			return "", &DeserializationError{Element: name, Payload: payload}
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return "", &DeserializationError{Element: name, Payload: payload, Err: err}
		}

		return value, nil
	}
}
