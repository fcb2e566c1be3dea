// Package readiness measures how well a talent covers the fixed requirement list of their SAP track.
package readiness

import (
	"math"

	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/skills"
	"github.com/spigell/talent-matcher/internal/vocab"
)

// DefaultJobReadyThreshold is the readiness at which a learning talent can be marked job ready.
const DefaultJobReadyThreshold = 80

// Report is the skill-gap analysis of one talent.
type Report struct {
	TalentID  string   `json:"talent_id"`
	Track     string   `json:"track"`
	Required  []string `json:"required"`
	Matched   []string `json:"matched"`
	Missing   []string `json:"missing"`
	Readiness int      `json:"readiness"`
}

// JobReady reports whether the readiness reaches the threshold.
func (r *Report) JobReady(threshold int) bool {
	return r != nil && r.Readiness >= threshold
}

type Analyzer struct {
	tracks  *vocab.Tracks
	matcher skills.Matcher
}

// NewAnalyzer uses the default tracks when tracks is nil.
func NewAnalyzer(tracks *vocab.Tracks, matcher skills.Matcher) *Analyzer {
	if tracks == nil {
		tracks = vocab.DefaultTracks()
	}
	return &Analyzer{tracks: tracks, matcher: matcher}
}

// AnalyzeSkillGap compares the talent's skills with their track requirements.
// Unknown or missing tracks fall back to the default track.
func (a *Analyzer) AnalyzeSkillGap(talent *model.TalentProfile) *Report {
	var (
		track       string
		talentID    string
		talentSkill []string
	)
	if talent != nil {
		track = talent.SAPTrack
		talentID = talent.ID
		talentSkill = talent.Skills
	}

	name, required := a.tracks.Requirements(track)
	matched, missing := a.matcher.Match(talentSkill, required)

	readiness := 0
	if len(required) > 0 {
		readiness = int(math.Round(100 * float64(len(matched)) / float64(len(required))))
	}

	return &Report{
		TalentID:  talentID,
		Track:     name,
		Required:  required,
		Matched:   nonNil(matched),
		Missing:   nonNil(missing),
		Readiness: readiness,
	}
}

// SuggestStatus returns JOB_READY for a learning talent whose readiness reaches the threshold,
// otherwise the current status. Placed talents are never changed.
func SuggestStatus(talent *model.TalentProfile, report *Report, threshold int) model.PlacementStatus {
	if talent == nil {
		return ""
	}
	current := talent.PlacementStatus
	if current == "" {
		current = model.StatusLearning
	}
	if talent.IsPlaced() {
		return current
	}
	if current == model.StatusLearning && report.JobReady(threshold) {
		return model.StatusJobReady
	}
	return current
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
