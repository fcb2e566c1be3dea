// Package language recognizes CEFR level tags in free-text language entries such as "German B2".
package language

import (
	"fmt"
	"strings"

	"github.com/spigell/talent-matcher/internal/skills"
)

type Level int

const (
	Unknown Level = iota
	A1
	A2
	B1
	B2
	C1
	C2
)

var levelNames = map[Level]string{
	A1: "A1",
	A2: "A2",
	B1: "B1",
	B2: "B2",
	C1: "C1",
	C2: "C2",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// AtLeast reports whether l meets the required level.
func (l Level) AtLeast(required Level) bool {
	return l >= required
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel parses a bare CEFR tag like "b2".
func ParseLevel(s string) (Level, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	return Unknown, fmt.Errorf("unknown language level %q", s)
}

// Tag returns the highest CEFR tag mentioned in entry, or Unknown.
func Tag(entry string) Level {
	highest := Unknown
	for _, token := range skills.Tokens(entry) {
		if level, err := ParseLevel(token); err == nil && level > highest {
			highest = level
		}
	}
	return highest
}

var germanMarkers = []string{"german", "deutsch"}

// Speaks reports whether any entry mentions one of the markers, case-insensitively.
func Speaks(languages []string, markers ...string) bool {
	for _, entry := range languages {
		lower := strings.ToLower(entry)
		for _, marker := range markers {
			if strings.Contains(lower, strings.ToLower(marker)) {
				return true
			}
		}
	}
	return false
}

// SpeaksGerman reports whether German is listed among the languages.
func SpeaksGerman(languages []string) bool {
	return Speaks(languages, germanMarkers...)
}

// GermanLevel returns the highest level tag among entries mentioning German, defaulting to A1.
func GermanLevel(languages []string) Level {
	highest := A1
	for _, entry := range languages {
		if !Speaks([]string{entry}, germanMarkers...) {
			continue
		}
		if level := Tag(entry); level > highest {
			highest = level
		}
	}
	return highest
}

// HasAdvancedTag reports whether any entry carries a B2, C1 or C2 tag.
func HasAdvancedTag(languages []string) bool {
	for _, entry := range languages {
		if Tag(entry) >= B2 {
			return true
		}
	}
	return false
}

type Tier string

const (
	TierBasic        Tier = "basic"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// TierOf groups levels in pairs: A1-A2 basic, B1-B2 intermediate, C1-C2 advanced.
func TierOf(level Level) Tier {
	switch {
	case level >= C1:
		return TierAdvanced
	case level >= B1:
		return TierIntermediate
	default:
		return TierBasic
	}
}

// MinLevel returns the lowest level belonging to the tier.
func (t Tier) MinLevel() (Level, bool) {
	switch Tier(strings.ToLower(string(t))) {
	case TierBasic:
		return A1, true
	case TierIntermediate:
		return B1, true
	case TierAdvanced:
		return C1, true
	default:
		return Unknown, false
	}
}
