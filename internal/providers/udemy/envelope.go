package udemy

import (
	"encoding/json"
	"fmt"
)

// Envelope is a list response. Bare entity responses become a one-entry
// envelope with no cursors.
type Envelope struct {
	Count    int
	Next     string
	Previous string
	Entries  []map[string]any
}

// UnwrapEnvelope returns the raw entries of a response body.
//
//	{"results": [A, B], "count": 2, ...} -> [A, B]
//	{"id": 1, ...}                        -> [{"id": 1, ...}]
func UnwrapEnvelope(payload any) ([]map[string]any, error) {
	env, err := ParseEnvelope(payload)
	if err != nil {
		return nil, err
	}
	return env.Entries, nil
}

// ParseEnvelope is UnwrapEnvelope keeping the pagination fields.
func ParseEnvelope(payload any) (Envelope, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return Envelope{}, &MalformedResponseError{Reason: "top-level value is not an object", Payload: payload}
	}

	results, wrapped := obj["results"]
	if !wrapped {
		return Envelope{Count: 1, Entries: []map[string]any{obj}}, nil
	}

	var entries []map[string]any
	switch list := results.(type) {
	case []map[string]any:
		entries = list
	case []any:
		entries = make([]map[string]any, 0, len(list))
		for i, el := range list {
			m, ok := el.(map[string]any)
			if !ok {
				return Envelope{}, &MalformedResponseError{Reason: fmt.Sprintf("results[%d] is not an object", i), Payload: payload}
			}
			entries = append(entries, m)
		}
	default:
		return Envelope{}, &MalformedResponseError{Reason: "results is not a list", Payload: payload}
	}

	env := Envelope{Count: len(entries), Entries: entries}
	if c, ok := intValue(obj["count"]); ok {
		env.Count = c
	}
	env.Next, _ = obj["next"].(string)
	env.Previous, _ = obj["previous"].(string)
	return env, nil
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
