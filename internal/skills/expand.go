package skills

import (
	"sort"
	"strings"
)

// SynonymGroups resolves a normalized token to its full synonym group (key included).
// It returns nil when the token belongs to no group.
type SynonymGroups interface {
	Group(token string) []string
}

// Expand broadens a search term with domain synonyms.
// The result holds the normalized term, each of its tokens and the whole group of every token
// found in groups. It is sorted and free of duplicates; an empty term yields nil.
func Expand(term string, groups SynonymGroups) []string {
	normalized := Normalize(term)
	if normalized == "" {
		return nil
	}

	seen := map[string]struct{}{normalized: {}}
	for _, token := range strings.Fields(normalized) {
		seen[token] = struct{}{}
		if groups == nil {
			continue
		}
		for _, member := range groups.Group(token) {
			if member = Normalize(member); member != "" {
				seen[member] = struct{}{}
			}
		}
	}

	expanded := make([]string, 0, len(seen))
	for term := range seen {
		expanded = append(expanded, term)
	}
	sort.Strings(expanded)

	return expanded
}
