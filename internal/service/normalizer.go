package service

import "strings"

// normalizeEIN strips surrounding whitespace; EINs are otherwise compared verbatim.
func normalizeEIN(ein string) string {
	return strings.TrimSpace(ein)
}

// normalizeEINs trims, drops empties and removes duplicates, keeping first occurrence.
func normalizeEINs(eins []string) []string {
	seen := make(map[string]struct{}, len(eins))
	out := make([]string, 0, len(eins))
	for _, ein := range eins {
		ein = normalizeEIN(ein)
		if ein == "" {
			continue
		}
		if _, ok := seen[ein]; ok {
			continue
		}
		seen[ein] = struct{}{}
		out = append(out, ein)
	}
	return out
}
