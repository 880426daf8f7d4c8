package devutil

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// pick toma cualquier struct/map/JSON crudo, lo pasa a map[string]any,
// y devuelve solo las keys pedidas. Útil para debug/prints.
func pick(v any, keys ...string) map[string]any {
	var b []byte
	switch raw := v.(type) {
	case json.RawMessage:
		b = raw
	case []byte:
		b = raw
	default:
		var err error
		b, err = json.Marshal(v)
		if err != nil {
			return map[string]any{}
		}
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if val, ok := m[k]; ok {
			out[k] = val
		}
	}
	return out
}

func Pick(v any, keys ...string) map[string]any {
	return pick(v, keys...)
}

// Summarize renders the picked keys as "k1=v1 k2=v2" in key order, or
// "unreadable record" when none of them can be read.
func Summarize(v any, keys ...string) string {
	m := pick(v, keys...)
	if len(m) == 0 {
		return "unreadable record"
	}

	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}
