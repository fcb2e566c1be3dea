// Package matching composes the fit calculators into a weighted talent/job score and ranks candidates.
package matching

import (
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/scoring"
)

// Weights are the relative importance of each weighted factor.
type Weights struct {
	Skills     float64 `json:"skills" mapstructure:"skills"`
	Experience float64 `json:"experience" mapstructure:"experience"`
	Location   float64 `json:"location" mapstructure:"location"`
	Language   float64 `json:"language" mapstructure:"language"`
}

// DefaultWeights sum to 100.
func DefaultWeights() Weights {
	return Weights{Skills: 40, Experience: 30, Location: 20, Language: 10}
}

func (w Weights) Total() float64 {
	return w.Skills + w.Experience + w.Location + w.Language
}

func (w Weights) Validate() error {
	if w.Skills < 0 || w.Experience < 0 || w.Location < 0 || w.Language < 0 {
		return errors.New("weights must not be negative")
	}
	if w.Total() == 0 {
		return errors.New("at least one weight must be positive")
	}
	return nil
}

// Breakdown holds each factor as a percentage. Availability is informative and never weighted.
type Breakdown struct {
	Skills       int `json:"skills"`
	Experience   int `json:"experience"`
	Location     int `json:"location"`
	Language     int `json:"language"`
	Availability int `json:"availability"`
}

type Result struct {
	TalentID  string    `json:"talent_id"`
	JobID     string    `json:"job_id"`
	Score     int       `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

type Engine struct {
	weights    Weights
	calculator scoring.Calculator
	logger     *zap.Logger
}

type Option func(*Engine)

// WithWeights replaces the default weights. Invalid weights are ignored.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		if w.Validate() == nil {
			e.weights = w
		}
	}
}

func WithCalculator(c scoring.Calculator) Option {
	return func(e *Engine) {
		e.calculator = c
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights: DefaultWeights(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Weights() Weights {
	return e.weights
}

// ScoreTalentJob returns the weighted score of talent for job, in [0,100].
func (e *Engine) ScoreTalentJob(talent *model.TalentProfile, job *model.Job) Result {
	if talent == nil {
		talent = &model.TalentProfile{}
	}
	if job == nil {
		job = &model.Job{}
	}

	location := job.LocationText()

	skills := e.calculator.SkillsOverlap(talent.Skills, job.RequiredSkills)
	experience := scoring.ExperienceRatio(talent.Experience(), job.MinExperience)
	loc := scoring.LocationMatch(location)
	lang := scoring.LanguageMatch(talent.Languages, location)
	availability := scoring.Availability(talent.Availability)

	w := e.weights
	weighted := skills*w.Skills + experience*w.Experience + loc*w.Location + lang*w.Language
	score := scoring.Clamp(int(math.Round(weighted*100/w.Total())), 0, 100)

	return Result{
		TalentID: talent.ID,
		JobID:    job.ID,
		Score:    score,
		Breakdown: Breakdown{
			Skills:       scoring.Percent(skills),
			Experience:   scoring.Percent(experience),
			Location:     scoring.Percent(loc),
			Language:     scoring.Percent(lang),
			Availability: scoring.Percent(availability),
		},
	}
}

// MatchTalentsToJob scores every talent not yet placed against job and returns the best topN.
// Ties keep input order. topN <= 0 returns every result.
func (e *Engine) MatchTalentsToJob(talents []*model.TalentProfile, job *model.Job, topN int) []Result {
	pool := model.NewTalents(talents...).Clone()
	placed := pool.ExcludePlaced()
	if len(placed) > 0 {
		e.logger.Debug("skipping placed talents", zap.Strings("talent_ids", placed))
	}

	results := make([]Result, 0, pool.Len())
	for _, talent := range pool.Items {
		results = append(results, e.ScoreTalentJob(talent, job))
	}

	return rank(results, topN)
}

// MatchJobsToTalent scores every open job for talent and returns the best topN.
func (e *Engine) MatchJobsToTalent(talent *model.TalentProfile, jobs []*model.Job, topN int) []Result {
	open := model.NewJobs(jobs...).OpenOnly()
	if skipped := len(jobs) - open.Len(); skipped > 0 {
		e.logger.Debug("skipping jobs that are not open", zap.Int("count", skipped))
	}

	results := make([]Result, 0, open.Len())
	for _, job := range open.Items {
		results = append(results, e.ScoreTalentJob(talent, job))
	}

	return rank(results, topN)
}

func rank(results []Result, topN int) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}
