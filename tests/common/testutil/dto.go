//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"
)

// DtoMap round-trips a request DTO through JSON so individual fields can be
// mutated or dropped before sending it as a raw body.
func DtoMap(t *testing.T, v any, muts ...func(map[string]any)) map[string]any {
	t.Helper()
	b, _ := json.Marshal(v)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	for _, f := range muts {
		f(m)
	}
	return m
}

func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
		} else {
			m[key] = value
		}
	}
}
