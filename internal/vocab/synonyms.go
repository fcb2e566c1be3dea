// Package vocab holds the read-only domain vocabularies: skill synonym groups and SAP track requirements.
package vocab

import (
	"sort"

	"github.com/spigell/talent-matcher/internal/skills"
)

// Synonyms is an immutable set of synonym groups keyed by a normalized term.
type Synonyms struct {
	groups  map[string][]string
	members map[string][]string
}

// DefaultSynonyms returns the built-in SAP synonym table.
func DefaultSynonyms() *Synonyms {
	return NewSynonyms(map[string][]string{
		"sap":            {"erp", "s4hana", "hana"},
		"btp":            {"business technology platform", "cloud platform", "cap", "integration suite"},
		"abap":           {"abap oo", "abap cloud", "rap"},
		"fiori":          {"ui5", "sapui5"},
		"fico":           {"finance", "controlling", "fi", "co"},
		"mm":             {"materials management", "procurement"},
		"sd":             {"sales and distribution", "sales"},
		"successfactors": {"sf", "hcm", "employee central"},
	})
}

// NewSynonyms builds the lookup from key -> synonyms. Keys and synonyms are normalized and copied.
func NewSynonyms(table map[string][]string) *Synonyms {
	s := &Synonyms{
		groups:  make(map[string][]string, len(table)),
		members: make(map[string][]string),
	}

	for key, synonyms := range table {
		key = skills.Normalize(key)
		if key == "" {
			continue
		}

		group := []string{key}
		for _, synonym := range synonyms {
			if synonym = skills.Normalize(synonym); synonym != "" && synonym != key {
				group = append(group, synonym)
			}
		}
		s.groups[key] = append(s.groups[key], group[1:]...)
	}

	for key, synonyms := range s.groups {
		group := append([]string{key}, synonyms...)
		for _, member := range group {
			s.members[member] = mergeUnique(s.members[member], group)
		}
	}

	return s
}

// Group returns every member of the groups the token belongs to, or nil.
func (s *Synonyms) Group(token string) []string {
	if s == nil {
		return nil
	}
	group := s.members[skills.Normalize(token)]
	if len(group) == 0 {
		return nil
	}
	out := make([]string, len(group))
	copy(out, group)
	return out
}

// Keys returns the sorted group keys.
func (s *Synonyms) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.groups))
	for key := range s.groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of groups.
func (s *Synonyms) Len() int {
	if s == nil {
		return 0
	}
	return len(s.groups)
}

func mergeUnique(dst, src []string) []string {
	for _, v := range src {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
