//go:build unit || e2e

package testutil

// Field sets key in a DTO map; a nil value removes the key instead.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}
