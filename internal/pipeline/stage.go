// Package pipeline validates how an application moves through the hiring funnel.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid stage transition")
	ErrUnknownStage      = errors.New("unknown stage")
)

type Stage string

const (
	StageShortlisted        Stage = "shortlisted"
	StageInterviewRequested Stage = "interview_requested"
	StageInterviewing       Stage = "interviewing"
	StageOffered            Stage = "offered"
	StageHired              Stage = "hired"
	StageRejected           Stage = "rejected"
)

// Stages lists the funnel in order, terminal stages last.
var Stages = []Stage{
	StageShortlisted,
	StageInterviewRequested,
	StageInterviewing,
	StageOffered,
	StageHired,
	StageRejected,
}

var transitions = map[Stage][]Stage{
	StageShortlisted:        {StageInterviewRequested, StageRejected},
	StageInterviewRequested: {StageInterviewing, StageRejected},
	StageInterviewing:       {StageOffered, StageRejected},
	StageOffered:            {StageHired, StageRejected},
	StageHired:              {},
	StageRejected:           {},
}

// ParseStage accepts stage names regardless of case and surrounding blanks.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[stage]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, s)
	}
	return stage, nil
}

func (s Stage) Known() bool {
	_, ok := transitions[s]
	return ok
}

func (s Stage) String() string {
	return string(s)
}

// IsValidTransition reports whether to is an allowed target of from. Unknown stages are never valid.
func IsValidTransition(from, to Stage) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Next returns the stages reachable from the given one.
func Next(from Stage) []Stage {
	allowed := transitions[from]
	out := make([]Stage, len(allowed))
	copy(out, allowed)
	return out
}

// IsTerminal reports whether no transition leaves the stage.
func IsTerminal(s Stage) bool {
	allowed, ok := transitions[s]
	return ok && len(allowed) == 0
}

// Change records one accepted transition.
type Change struct {
	From Stage     `json:"from"`
	To   Stage     `json:"to"`
	At   time.Time `json:"at"`
}

// Application ties a talent to a job at a stage of the funnel.
type Application struct {
	TalentID string   `json:"talent_id"`
	JobID    string   `json:"job_id"`
	Stage    Stage    `json:"stage"`
	History  []Change `json:"history,omitempty"`
}

// NewApplication starts an application at the first stage.
func NewApplication(talentID, jobID string) *Application {
	return &Application{TalentID: talentID, JobID: jobID, Stage: StageShortlisted}
}

// Advance moves the application to the target stage or fails without touching it.
func (a *Application) Advance(to Stage, at time.Time) error {
	if !IsValidTransition(a.Stage, to) {
		return fmt.Errorf("%w: %s -> %s (talent %s, job %s)", ErrInvalidTransition, a.Stage, to, a.TalentID, a.JobID)
	}
	a.History = append(a.History, Change{From: a.Stage, To: to, At: at})
	a.Stage = to
	return nil
}

// Closed reports whether the application reached a terminal stage.
func (a *Application) Closed() bool {
	return IsTerminal(a.Stage)
}
