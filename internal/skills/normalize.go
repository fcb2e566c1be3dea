package skills

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var reNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Normalize lowercases s and collapses every run of non letter/digit characters into a single space,
// so "SAP/HANA", "sap-hana" and " SAP  HANA " all become "sap hana".
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = reNonWord.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens returns the normalized words of s.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// HasToken reports whether any normalized word of s equals token.
func HasToken(s, token string) bool {
	token = Normalize(token)
	if token == "" {
		return false
	}
	for _, t := range Tokens(s) {
		if t == token {
			return true
		}
	}
	return false
}

// ContainsPhrase reports whether the normalized phrase occurs in s on word boundaries.
func ContainsPhrase(s, phrase string) bool {
	phrase = Normalize(phrase)
	if phrase == "" {
		return false
	}
	return strings.Contains(" "+Normalize(s)+" ", " "+phrase+" ")
}

// Overlaps reports whether a contains b or b contains a after normalization.
// Identical values always overlap; otherwise a value that normalizes to empty never does.
func Overlaps(a, b string) bool {
	return DefaultMatcher.Overlaps(a, b)
}

// DefaultMatcher applies plain bidirectional containment.
var DefaultMatcher = Matcher{}

// Matcher compares skill strings by bidirectional substring containment.
//
// Containment is permissive: a short requirement like "SD" matches "SDK".
// MinOverlapLength raises the bar by requiring the shorter side to have at least that many runes.
type Matcher struct {
	MinOverlapLength int
}

func (m Matcher) Overlaps(a, b string) bool {
	return identical(a, b) || m.overlapsNormalized(Normalize(a), Normalize(b))
}

// identical compares raw values ignoring case and surrounding spaces.
func identical(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (m Matcher) overlapsNormalized(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	shorter := a
	if utf8.RuneCountInString(b) < utf8.RuneCountInString(a) {
		shorter = b
	}
	if a != b && utf8.RuneCountInString(shorter) < m.MinOverlapLength {
		return false
	}

	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Match splits want into entries overlapping any of have and entries that do not.
// Both results keep the order of want.
func (m Matcher) Match(have, want []string) (matched, missing []string) {
	normalized := make([]string, len(have))
	for i, h := range have {
		normalized[i] = Normalize(h)
	}

	for _, w := range want {
		nw := Normalize(w)
		found := false
		for i, h := range normalized {
			if identical(have[i], w) || m.overlapsNormalized(h, nw) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, w)
		} else {
			missing = append(missing, w)
		}
	}

	return matched, missing
}

// Ratio returns the fraction of want covered by have, or neutral when want is empty.
func (m Matcher) Ratio(have, want []string, neutral float64) float64 {
	if len(want) == 0 {
		return neutral
	}
	matched, _ := m.Match(have, want)
	return float64(len(matched)) / float64(len(want))
}
