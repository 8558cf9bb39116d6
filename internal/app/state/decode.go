package state

import (
	"bytes"
	"encoding/json"
)

// listPayload decodes a list from an unwrapped response payload, tolerating
// the three shapes upstream endpoints actually produce: a bare array, a
// wrapper keyed by the resource name ({hotels:[...]}), and a generic
// {data:[...]} wrapper. The result is always a non-nil slice.
func listPayload[T any](raw json.RawMessage, keys ...string) []T {
	out := []T{}
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return out
	}

	if body[0] == '[' {
		if err := json.Unmarshal(body, &out); err != nil || out == nil {
			return []T{}
		}
		return out
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return out
	}
	for _, key := range append(keys, "data") {
		if nested, ok := wrapper[key]; ok {
			return listPayload[T](nested, keys...)
		}
	}
	return out
}

// objectPayload decodes a single record, tolerating both a bare object and
// wrappers keyed by the resource name or "data".
func objectPayload[T any](raw json.RawMessage, keys ...string) (T, bool) {
	var zero T
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return zero, false
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err == nil {
		for _, key := range append(keys, "data") {
			if nested, ok := wrapper[key]; ok {
				return objectPayload[T](nested, keys...)
			}
		}
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, false
	}
	return out, true
}
