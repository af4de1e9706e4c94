package upstream

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Number is an optional numeric field that accepts JSON numbers, numeric strings
// ("12.5", "$1,234") and null. Anything unparseable leaves the value unset instead of
// failing the surrounding payload.
type Number struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		n.Value, n.Valid = f, true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n.Value, n.Valid = f, true
	}
	return nil
}

// Ptr returns nil when the number is unset.
func (n Number) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// DecodeEach decodes every element of a JSON array independently. Elements whose
// fields have the wrong type are kept with the fields that did decode; elements that
// are not objects at all are skipped.
func DecodeEach[T any](raw []json.RawMessage) []T {
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) || typeErr.Field == "" {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}
