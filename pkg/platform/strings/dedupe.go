// Package strings provides string list helpers for configuration parsing.
package strings

import (
	"strings"
)

// SplitList splits raw on sep, trims each element, and drops empties and
// repeats. Order of first appearance is preserved.
//
//	SplitList(" http://a, http://b,,http://a ", ",")
//	// []string{"http://a", "http://b"}
func SplitList(raw, sep string) []string {
	result := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, sep) {
		v := strings.TrimSpace(part)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
