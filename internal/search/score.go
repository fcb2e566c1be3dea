// Package search scores talents against the criteria chosen in a talent search screen.
package search

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spigell/talent-matcher/internal/language"
	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/skills"
)

// All marks a criterion as inactive.
const All = "all"

const (
	ExperienceJunior = "junior"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"

	Available   = "available"
	Unavailable = "unavailable"
)

// Criteria are the filters of a search. Empty values behave like All.
type Criteria struct {
	Track        string `json:"track,omitempty" mapstructure:"track"`
	GermanLevel  string `json:"german_level,omitempty" mapstructure:"german-level"`
	Experience   string `json:"experience,omitempty" mapstructure:"experience"`
	Availability string `json:"availability,omitempty" mapstructure:"availability"`
	Query        string `json:"query,omitempty" mapstructure:"query"`
}

// Normalized returns the criteria with surrounding spaces trimmed from every value.
func (c Criteria) Normalized() Criteria {
	return Criteria{
		Track:        strings.TrimSpace(c.Track),
		GermanLevel:  strings.TrimSpace(c.GermanLevel),
		Experience:   strings.TrimSpace(c.Experience),
		Availability: strings.TrimSpace(c.Availability),
		Query:        strings.TrimSpace(c.Query),
	}
}

// Validate rejects values no talent could ever satisfy.
func (c Criteria) Validate() error {
	c = c.Normalized()

	var errs []error
	if active(c.GermanLevel) {
		if _, ok := language.Tier(c.GermanLevel).MinLevel(); !ok {
			errs = append(errs, fmt.Errorf("unknown german level tier %q", c.GermanLevel))
		}
	}
	if active(c.Experience) {
		if _, _, ok := experienceBand(c.Experience); !ok {
			errs = append(errs, fmt.Errorf("unknown experience band %q", c.Experience))
		}
	}
	if active(c.Availability) {
		switch strings.ToLower(c.Availability) {
		case Available, Unavailable:
		default:
			errs = append(errs, fmt.Errorf("unknown availability %q", c.Availability))
		}
	}
	return errors.Join(errs...)
}

// Weights of each criterion. Only active criteria contribute to the denominator.
type Weights struct {
	Track        int `json:"track" mapstructure:"track"`
	GermanLevel  int `json:"german_level" mapstructure:"german-level"`
	Experience   int `json:"experience" mapstructure:"experience"`
	Availability int `json:"availability" mapstructure:"availability"`
}

func DefaultWeights() Weights {
	return Weights{Track: 30, GermanLevel: 25, Experience: 25, Availability: 20}
}

func (w Weights) Total() int {
	return w.Track + w.GermanLevel + w.Experience + w.Availability
}

func (w Weights) Validate() error {
	if w.Track < 0 || w.GermanLevel < 0 || w.Experience < 0 || w.Availability < 0 {
		return errors.New("weights must not be negative")
	}
	if w.Total() == 0 {
		return errors.New("at least one weight must be positive")
	}
	return nil
}

// MatchScore returns the share of active criteria weight the talent satisfies, as a percentage.
// With no active criterion every talent scores 100.
func (w Weights) MatchScore(talent *model.TalentProfile, c Criteria) int {
	if talent == nil {
		talent = &model.TalentProfile{}
	}
	c = c.Normalized()

	total, earned := 0, 0
	apply := func(isActive bool, weight int, ok func() bool) {
		if !isActive {
			return
		}
		total += weight
		if ok() {
			earned += weight
		}
	}

	apply(active(c.Track), w.Track, func() bool {
		return strings.EqualFold(strings.TrimSpace(talent.SAPTrack), c.Track)
	})
	apply(active(c.GermanLevel), w.GermanLevel, func() bool {
		min, ok := language.Tier(c.GermanLevel).MinLevel()
		return ok && language.GermanLevel(talent.Languages).AtLeast(min)
	})
	apply(active(c.Experience), w.Experience, func() bool {
		lo, hi, ok := experienceBand(c.Experience)
		years := talent.Experience()
		return ok && years >= lo && (hi < 0 || years <= hi)
	})
	apply(active(c.Availability), w.Availability, func() bool {
		return talent.Availability == strings.EqualFold(c.Availability, Available)
	})

	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(earned) / float64(total)))
}

// MatchScore uses the default weights.
func MatchScore(talent *model.TalentProfile, c Criteria) int {
	return DefaultWeights().MatchScore(talent, c)
}

// Hit is a ranked search result.
type Hit struct {
	TalentID string `json:"talent_id"`
	Score    int    `json:"score"`
}

// Searcher ranks talents by criteria, broadening the free-text query with synonyms.
type Searcher struct {
	Weights  Weights
	Synonyms skills.SynonymGroups
	Matcher  skills.Matcher
}

// QueryMatches reports whether any expanded query term overlaps any of the talent's skills.
// An empty query matches everyone.
func (s *Searcher) QueryMatches(talent *model.TalentProfile, query string) bool {
	terms := skills.Expand(query, s.Synonyms)
	if len(terms) == 0 {
		return true
	}
	if talent == nil {
		return false
	}
	matched, _ := s.Matcher.Match(talent.Skills, terms)
	return len(matched) > 0
}

// Search returns talents matching the query with a score of at least minScore, best first.
func (s *Searcher) Search(talents []*model.TalentProfile, c Criteria, minScore int) []Hit {
	hits := make([]Hit, 0, len(talents))
	for _, talent := range talents {
		if talent == nil || !s.QueryMatches(talent, c.Query) {
			continue
		}
		score := s.Score(talent, c)
		if score < minScore {
			continue
		}
		hits = append(hits, Hit{TalentID: talent.ID, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	return hits
}

// Score is the criteria score of one talent under the searcher's weights.
func (s *Searcher) Score(talent *model.TalentProfile, c Criteria) int {
	return s.weights().MatchScore(talent, c)
}

// weights falls back to the defaults when the configured set is unusable.
func (s *Searcher) weights() Weights {
	if s.Weights.Validate() != nil {
		return DefaultWeights()
	}
	return s.Weights
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, All)
}

// experienceBand returns the inclusive year range of a band; hi is -1 for open-ended.
func experienceBand(band string) (lo, hi int, ok bool) {
	switch strings.ToLower(strings.TrimSpace(band)) {
	case ExperienceJunior:
		return 0, 2, true
	case ExperienceMid:
		return 3, 5, true
	case ExperienceSenior:
		return 6, -1, true
	default:
		return 0, 0, false
	}
}
