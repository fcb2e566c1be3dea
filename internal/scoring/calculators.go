// Package scoring holds the independent fit calculators. Each returns a ratio in [0,1].
package scoring

import (
	"math"
	"strings"

	"github.com/spigell/talent-matcher/internal/language"
	"github.com/spigell/talent-matcher/internal/skills"
)

const (
	// NeutralSkills is returned when a job lists no required skills.
	NeutralSkills = 0.5
	// GermanPenalty applies when a German-speaking location meets a candidate without German.
	GermanPenalty = 0.3
	// UnknownLocation applies to on-site jobs, since candidate location is not modeled.
	UnknownLocation = 0.5
)

var germanyMarkers = []string{"germany", "deutschland"}

// Calculator carries the skill comparison used by SkillsOverlap.
type Calculator struct {
	Skills skills.Matcher
}

// SkillsOverlap returns the matched share of required skills.
func (c Calculator) SkillsOverlap(talentSkills, requiredSkills []string) float64 {
	return c.Skills.Ratio(talentSkills, requiredSkills, NeutralSkills)
}

// SkillsOverlap uses the default permissive matcher.
func SkillsOverlap(talentSkills, requiredSkills []string) float64 {
	return Calculator{}.SkillsOverlap(talentSkills, requiredSkills)
}

// ExperienceRatio returns years/minRequired capped at 1. No requirement scores 1.
func ExperienceRatio(years, minRequired int) float64 {
	if minRequired <= 0 {
		return 1.0
	}
	if years < 0 {
		years = 0
	}
	return math.Min(float64(years)/float64(minRequired), 1.0)
}

// RequiresGerman reports whether the location text points to Germany.
func RequiresGerman(location string) bool {
	lower := strings.ToLower(location)
	for _, marker := range germanyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// LanguageMatch penalizes candidates without German for jobs located in Germany.
func LanguageMatch(languages []string, location string) float64 {
	if !RequiresGerman(location) {
		return 1.0
	}
	if language.SpeaksGerman(languages) {
		return 1.0
	}
	return GermanPenalty
}

// LocationMatch returns 1 for remote or unspecified locations and a flat penalty otherwise.
func LocationMatch(location string) float64 {
	location = strings.TrimSpace(location)
	if location == "" || strings.Contains(strings.ToLower(location), "remote") {
		return 1.0
	}
	return UnknownLocation
}

func Availability(available bool) float64 {
	if available {
		return 1.0
	}
	return 0
}

// Percent converts a ratio to an integer percentage in [0,100].
func Percent(ratio float64) int {
	return Clamp(int(math.Round(ratio*100)), 0, 100)
}

func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
