package devutil

import (
	"encoding/json"
	"strings"
)

// Pick turns any struct or map into its JSON object form and keeps only the
// requested keys. A key may be a dotted path ("locale.title"); the result is
// then keyed by the full path. No keys returns the whole object. Used by the
// CLIs to print a few fields per entity.
func Pick(v any, keys ...string) map[string]any {
	m := toMap(v)
	if len(keys) == 0 {
		return m
	}

	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if val, ok := lookup(m, strings.Split(k, ".")); ok {
			out[k] = val
		}
	}
	return out
}

// SplitKeys parses a -fields flag value.
func SplitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func toMap(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

func lookup(m map[string]any, path []string) (any, bool) {
	val, ok := m[path[0]]
	if !ok {
		return nil, false
	}
	if len(path) == 1 {
		return val, true
	}
	next, ok := val.(map[string]any)
	if !ok {
		return nil, false
	}
	return lookup(next, path[1:])
}
