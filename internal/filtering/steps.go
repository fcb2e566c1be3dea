package filtering

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/readiness"
	"github.com/spigell/talent-matcher/internal/search"
	"github.com/spigell/talent-matcher/internal/skills"
	"github.com/spigell/talent-matcher/internal/vocab"
)

type placedFilter struct {
	toggle
}

// NewPlaced creates a filter that removes talents already placed with a company.
func NewPlaced() Filter {
	return &placedFilter{}
}

func (f *placedFilter) Name() string { return "placed" }

func (f *placedFilter) Validate(*Config) error { return nil }

func (f *placedFilter) Apply(_ context.Context, deps Deps, t *model.Talents) (*model.Talents, Step, error) {
	initial := t.Len()
	excluded := t.ExcludePlaced()
	if len(excluded) > 0 {
		deps.Logger.Info("excluding placed talents",
			zap.Strings("excluded_talents", excluded),
			zap.Int("talents_left", t.Len()),
		)
	}
	return t, Step{Initial: initial, Dropped: len(excluded), Left: t.Len()}, nil
}

func (f *placedFilter) Status() Status {
	return f.status(f.Name(), nil)
}

type availabilityFilter struct {
	toggle
	required bool
}

// NewAvailability creates a filter that removes unavailable talents when availability is required.
func NewAvailability() Filter {
	return &availabilityFilter{}
}

func (f *availabilityFilter) Name() string { return "availability" }

func (f *availabilityFilter) Validate(cfg *Config) error {
	f.required = cfg.RequireAvailable
	return nil
}

func (f *availabilityFilter) Apply(_ context.Context, deps Deps, t *model.Talents) (*model.Talents, Step, error) {
	initial := t.Len()
	if !f.required {
		return t, unchanged(t), nil
	}

	excluded := t.RemoveFunc(func(talent *model.TalentProfile) bool {
		return !talent.Availability
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding unavailable talents",
			zap.Strings("excluded_talents", excluded),
			zap.Int("talents_left", t.Len()),
		)
	}
	return t, Step{Initial: initial, Dropped: len(excluded), Left: t.Len()}, nil
}

func (f *availabilityFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"required": strconv.FormatBool(f.required)})
}

type inPipelineFilter struct {
	toggle
	jobID string
}

// NewInPipeline creates a filter that removes talents already applied to the job.
func NewInPipeline() Filter {
	return &inPipelineFilter{}
}

func (f *inPipelineFilter) Name() string { return "in_pipeline" }

func (f *inPipelineFilter) Validate(cfg *Config) error {
	f.jobID = cfg.JobID
	return nil
}

func (f *inPipelineFilter) Apply(_ context.Context, deps Deps, t *model.Talents) (*model.Talents, Step, error) {
	initial := t.Len()
	if f.jobID == "" {
		return t, unchanged(t), nil
	}
	if deps.Applications == nil {
		return t, Step{}, errors.New("applications journal is required")
	}

	excluded := t.Exclude(model.TalentIDField, deps.Applications.TalentIDsForJob(f.jobID))
	if len(excluded) > 0 {
		deps.Logger.Info("excluding talents already in the pipeline",
			zap.String("job_id", f.jobID),
			zap.Strings("excluded_talents", excluded),
			zap.Int("talents_left", t.Len()),
		)
	}
	return t, Step{Initial: initial, Dropped: len(excluded), Left: t.Len()}, nil
}

func (f *inPipelineFilter) Status() Status {
	details := map[string]string{}
	if f.jobID != "" {
		details["job_id"] = f.jobID
	}
	return f.status(f.Name(), details)
}

type criteriaFilter struct {
	toggle
	criteria search.Criteria
	minScore int
}

// NewCriteria creates a filter that removes talents failing the search query or scoring below the minimum.
func NewCriteria() Filter {
	return &criteriaFilter{}
}

func (f *criteriaFilter) Name() string { return "criteria" }

func (f *criteriaFilter) Validate(cfg *Config) error {
	if cfg.MinScore < 0 || cfg.MinScore > 100 {
		return fmt.Errorf("minimum score must be within 0..100, got %d", cfg.MinScore)
	}
	f.criteria = cfg.Criteria
	f.minScore = cfg.MinScore
	return f.criteria.Validate()
}

func (f *criteriaFilter) Apply(_ context.Context, deps Deps, t *model.Talents) (*model.Talents, Step, error) {
	initial := t.Len()

	searcher := deps.Searcher
	if searcher == nil {
		searcher = &search.Searcher{Weights: search.DefaultWeights(), Synonyms: vocab.DefaultSynonyms(), Matcher: skills.DefaultMatcher}
	}

	excluded := t.RemoveFunc(func(talent *model.TalentProfile) bool {
		return !searcher.QueryMatches(talent, f.criteria.Query) || searcher.Score(talent, f.criteria) < f.minScore
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding talents not matching the search criteria",
			zap.Strings("excluded_talents", excluded),
			zap.Int("min_score", f.minScore),
			zap.Int("talents_left", t.Len()),
		)
	}
	return t, Step{Initial: initial, Dropped: len(excluded), Left: t.Len()}, nil
}

func (f *criteriaFilter) Status() Status {
	details := map[string]string{"min_score": strconv.Itoa(f.minScore)}
	if f.criteria.Query != "" {
		details["query"] = f.criteria.Query
	}
	return f.status(f.Name(), details)
}

type readinessFilter struct {
	toggle
	min int
}

// NewReadiness creates a filter that removes talents whose track readiness is below the minimum.
func NewReadiness() Filter {
	return &readinessFilter{}
}

func (f *readinessFilter) Name() string { return "readiness" }

func (f *readinessFilter) Validate(cfg *Config) error {
	if cfg.MinReadiness < 0 || cfg.MinReadiness > 100 {
		return fmt.Errorf("minimum readiness must be within 0..100, got %d", cfg.MinReadiness)
	}
	f.min = cfg.MinReadiness
	return nil
}

func (f *readinessFilter) Apply(_ context.Context, deps Deps, t *model.Talents) (*model.Talents, Step, error) {
	initial := t.Len()
	if f.min == 0 {
		return t, unchanged(t), nil
	}

	analyzer := deps.Analyzer
	if analyzer == nil {
		analyzer = readiness.NewAnalyzer(nil, skills.DefaultMatcher)
	}

	excluded := t.RemoveFunc(func(talent *model.TalentProfile) bool {
		report := analyzer.AnalyzeSkillGap(talent)
		if report.Readiness < f.min {
			deps.Logger.Debug("talent below readiness threshold",
				zap.String("talent_id", talent.ID),
				zap.String("track", report.Track),
				zap.Int("readiness", report.Readiness),
				zap.Strings("missing", report.Missing),
			)
			return true
		}
		return false
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding talents below readiness threshold",
			zap.Strings("excluded_talents", excluded),
			zap.Int("min_readiness", f.min),
			zap.Int("talents_left", t.Len()),
		)
	}
	return t, Step{Initial: initial, Dropped: len(excluded), Left: t.Len()}, nil
}

func (f *readinessFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"min_readiness": strconv.Itoa(f.min)})
}
