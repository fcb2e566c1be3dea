package agent

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/ai"
	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/scoring"
	"github.com/spigell/talent-matcher/internal/skills"
	"github.com/spigell/talent-matcher/internal/vocab"
)

const (
	skillsShare     = 0.7
	germanBonus     = 0.2
	experienceBonus = 0.1

	// InterviewThreshold is the score above which a first interview is recommended.
	InterviewThreshold = 0.7

	ActionInterview = "Schedule First Interview"
	ActionScreening = "Preliminary Screening Call"
)

// TraceEntry is one timestamped step of a single analysis.
type TraceEntry struct {
	At     time.Time `json:"at"`
	Step   string    `json:"step"`
	Detail string    `json:"detail,omitempty"`
}

type Insight struct {
	ID            string           `json:"id"`
	TalentID      string           `json:"talent_id"`
	JobID         string           `json:"job_id"`
	Score         float64          `json:"score"`
	MatchedSkills []string         `json:"matched_skills"`
	MissingSkills []string         `json:"missing_skills"`
	Strengths     []string         `json:"strengths"`
	Risks         []string         `json:"risks"`
	NextAction    string           `json:"next_action"`
	Requirements  JobRequirements  `json:"requirements"`
	Candidate     CandidateProfile `json:"candidate"`
	Narrative     *ai.Narrative    `json:"narrative,omitempty"`
	GeneratedAt   time.Time        `json:"generated_at"`
	Trace         []TraceEntry     `json:"trace"`
}

// HiringAgent runs the tools for one talent/job pair. It keeps no state between calls.
type HiringAgent struct {
	requirements Tool[model.Job, JobRequirements]
	candidates   Tool[model.TalentProfile, CandidateProfile]
	matcher      skills.Matcher
	narrator     ai.Narrator
	clock        func() time.Time
	newID        func() string
	logger       *zap.Logger
}

type Option func(*HiringAgent)

func WithTools(requirements Tool[model.Job, JobRequirements], candidates Tool[model.TalentProfile, CandidateProfile]) Option {
	return func(a *HiringAgent) {
		if requirements != nil {
			a.requirements = requirements
		}
		if candidates != nil {
			a.candidates = candidates
		}
	}
}

func WithMatcher(m skills.Matcher) Option {
	return func(a *HiringAgent) { a.matcher = m }
}

// WithNarrator adds a free-text narrative to every insight.
func WithNarrator(n ai.Narrator) Option {
	return func(a *HiringAgent) { a.narrator = n }
}

func WithClock(clock func() time.Time) Option {
	return func(a *HiringAgent) {
		if clock != nil {
			a.clock = clock
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(a *HiringAgent) {
		if newID != nil {
			a.newID = newID
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *HiringAgent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func New(tracks *vocab.Tracks, opts ...Option) *HiringAgent {
	a := &HiringAgent{
		requirements: &RequirementExtractor{Tracks: tracks},
		candidates:   &CandidateAnalyzer{Tracks: tracks},
		matcher:      skills.DefaultMatcher,
		clock:        time.Now,
		newID:        uuid.NewString,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type tracer struct {
	clock   func() time.Time
	entries []TraceEntry
}

func (t *tracer) add(step, format string, args ...any) {
	t.entries = append(t.entries, TraceEntry{At: t.clock(), Step: step, Detail: fmt.Sprintf(format, args...)})
}

// Analyze scores the talent for the job and recommends a next action.
func (a *HiringAgent) Analyze(ctx context.Context, talent *model.TalentProfile, job *model.Job) (*Insight, error) {
	if talent == nil {
		return nil, errors.New("talent is required")
	}
	if job == nil {
		return nil, errors.New("job is required")
	}

	trace := &tracer{clock: a.clock}
	trace.add("start", "talent %s, job %s", talent.ID, job.ID)

	req, err := a.requirements.Execute(ctx, *job)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.requirements.Name(), err)
	}
	trace.add(a.requirements.Name(), "%d required skills, tracks %v, german %s, %s", len(req.RequiredSkills), req.Tracks, req.GermanLevel, req.LocationType)

	cand, err := a.candidates.Execute(ctx, *talent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.candidates.Name(), err)
	}
	trace.add(a.candidates.Name(), "%d skills, %d sap skills, german %s (%s), %d years", len(cand.Skills), len(cand.SAPSkills), cand.GermanLevel, cand.GermanTier, cand.Experience)

	matched, missing := a.matcher.Match(cand.Skills, req.RequiredSkills)
	fraction := a.matcher.Ratio(cand.Skills, req.RequiredSkills, scoring.NeutralSkills)
	germanOK := cand.GermanLevel.AtLeast(req.GermanLevel)
	experienceOK := cand.Experience >= req.MinExperience

	score := skillsShare * fraction
	if germanOK {
		score += germanBonus
	}
	if experienceOK {
		score += experienceBonus
	}
	score = math.Min(score, 1)

	insight := &Insight{
		ID:            a.newID(),
		TalentID:      talent.ID,
		JobID:         job.ID,
		Score:         score,
		MatchedSkills: nonNil(matched),
		MissingSkills: nonNil(missing),
		Requirements:  req,
		Candidate:     cand,
		NextAction:    ActionScreening,
	}
	if score > InterviewThreshold {
		insight.NextAction = ActionInterview
	}
	insight.Strengths, insight.Risks = assess(req, cand, matched, missing, germanOK, experienceOK)
	trace.add("synthesize", "score %.2f, next action %q", score, insight.NextAction)

	if a.narrator != nil {
		narrative, err := a.narrator.Narrate(ctx, brief(insight, job))
		if err != nil {
			a.logger.Warn("narrative generation failed",
				zap.String("talent_id", talent.ID),
				zap.String("job_id", job.ID),
				zap.Error(err),
			)
			trace.add("narrate", "failed: %v", err)
		} else {
			insight.Narrative = narrative
			trace.add("narrate", "%d talking points", len(narrative.TalkingPoints))
		}
	}

	insight.GeneratedAt = a.clock()
	insight.Trace = trace.entries

	a.logger.Debug("analysis finished",
		zap.String("insight_id", insight.ID),
		zap.String("talent_id", talent.ID),
		zap.String("job_id", job.ID),
		zap.Float64("score", score),
		zap.String("next_action", insight.NextAction),
	)

	return insight, nil
}

func assess(req JobRequirements, cand CandidateProfile, matched, missing []string, germanOK, experienceOK bool) (strengths, risks []string) {
	strengths, risks = []string{}, []string{}

	if len(req.RequiredSkills) > 0 && len(matched) > 0 {
		strengths = append(strengths, fmt.Sprintf("Covers %d of %d required skills", len(matched), len(req.RequiredSkills)))
	}
	if len(missing) > 0 {
		risks = append(risks, "Missing skills: "+strings.Join(missing, ", "))
	}

	if germanOK {
		strengths = append(strengths, fmt.Sprintf("German %s meets the required %s", cand.GermanLevel, req.GermanLevel))
	} else {
		risks = append(risks, fmt.Sprintf("German %s is below the required %s", cand.GermanLevel, req.GermanLevel))
	}

	if experienceOK {
		if req.MinExperience > 0 {
			strengths = append(strengths, fmt.Sprintf("%d years of experience meet the minimum of %d", cand.Experience, req.MinExperience))
		}
	} else {
		risks = append(risks, fmt.Sprintf("%d years of experience, %d required", cand.Experience, req.MinExperience))
	}

	if len(cand.SAPSkills) > 0 {
		strengths = append(strengths, "SAP focus: "+strings.Join(cand.SAPSkills, ", "))
	}
	if cand.Readiness < ReadinessCertified {
		risks = append(risks, "No language certificate at B2 or above")
	}

	return strengths, risks
}

func brief(insight *Insight, job *model.Job) *ai.Brief {
	return &ai.Brief{
		TalentID:      insight.TalentID,
		JobID:         insight.JobID,
		JobTitle:      job.Title,
		Score:         insight.Score,
		MatchedSkills: insight.MatchedSkills,
		MissingSkills: insight.MissingSkills,
		Strengths:     insight.Strengths,
		Risks:         insight.Risks,
		NextAction:    insight.NextAction,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
