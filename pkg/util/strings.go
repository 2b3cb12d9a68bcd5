package util

import "strings"

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// UniqueStrings keeps the first occurrence of each non-empty value.
func UniqueStrings(values ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range values {
		for _, v := range list {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
