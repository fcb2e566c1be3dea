// Package ai defines the provider-neutral contract for generating hiring narratives.
package ai

import "context"

// Brief is the structured outcome of a candidate analysis handed to a provider.
type Brief struct {
	TalentID      string   `json:"talent_id"`
	JobID         string   `json:"job_id"`
	JobTitle      string   `json:"job_title,omitempty"`
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
	MissingSkills []string `json:"missing_skills,omitempty"`
	Strengths     []string `json:"strengths,omitempty"`
	Risks         []string `json:"risks,omitempty"`
	NextAction    string   `json:"next_action"`
}

type Narrative struct {
	Summary       string   `json:"summary"`
	TalkingPoints []string `json:"talking_points,omitempty"`
	Raw           string   `json:"-"`
}

// Narrator turns a brief into free text for recruiters.
type Narrator interface {
	Narrate(ctx context.Context, brief *Brief) (*Narrative, error)
}
