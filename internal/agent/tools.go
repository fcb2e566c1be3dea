// Package agent combines requirement extraction and candidate analysis into a hiring recommendation.
package agent

import (
	"context"
	"strings"

	"github.com/spigell/talent-matcher/internal/language"
	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/skills"
	"github.com/spigell/talent-matcher/internal/vocab"
)

// Tool is one step of the analysis.
type Tool[In, Out any] interface {
	Name() string
	Execute(ctx context.Context, in In) (Out, error)
}

type LocationType string

const (
	LocationRemote LocationType = "remote"
	LocationHybrid LocationType = "hybrid"
	LocationOnsite LocationType = "onsite"
)

const (
	ReadinessCertified   = 0.9
	ReadinessUncertified = 0.6
)

type JobRequirements struct {
	Tracks          []string       `json:"tracks"`
	MinExperience   int            `json:"min_experience"`
	RequiredSkills  []string       `json:"required_skills"`
	PreferredSkills []string       `json:"preferred_skills"`
	GermanLevel     language.Level `json:"german_level"`
	LocationType    LocationType   `json:"location_type"`
}

type CandidateProfile struct {
	Skills      []string       `json:"skills"`
	GermanLevel language.Level `json:"german_level"`
	GermanTier  language.Tier  `json:"german_tier"`
	Experience  int            `json:"experience"`
	SAPSkills   []string       `json:"sap_skills"`
	Readiness   float64        `json:"readiness"`
}

// RequirementExtractor reads structured requirements out of a job posting.
type RequirementExtractor struct {
	Tracks *vocab.Tracks
}

var _ Tool[model.Job, JobRequirements] = (*RequirementExtractor)(nil)

func (e *RequirementExtractor) Name() string { return "requirement_extractor" }

func (e *RequirementExtractor) Execute(ctx context.Context, job model.Job) (JobRequirements, error) {
	if err := ctx.Err(); err != nil {
		return JobRequirements{}, err
	}

	tracks := e.Tracks
	if tracks == nil {
		tracks = vocab.DefaultTracks()
	}

	text := strings.Join(append([]string{job.Title, job.Description}, job.RequiredSkills...), " ")

	req := JobRequirements{
		Tracks:          []string{},
		MinExperience:   max(job.MinExperience, 0),
		RequiredSkills:  append([]string{}, job.RequiredSkills...),
		PreferredSkills: []string{},
		GermanLevel:     requiredGermanLevel(job.Description),
		LocationType:    locationType(job.LocationText(), job.Description),
	}

	for _, name := range tracks.Names() {
		if skills.HasToken(text, name) {
			req.Tracks = append(req.Tracks, name)
		}
	}

	for _, candidate := range tracks.AllRequirements() {
		if !skills.ContainsPhrase(job.Description, candidate) || isListed(candidate, job.RequiredSkills) {
			continue
		}
		req.PreferredSkills = append(req.PreferredSkills, candidate)
	}

	return req, nil
}

// requiredGermanLevel picks the strongest tag mentioned, C1 over B2, defaulting to B1.
func requiredGermanLevel(description string) language.Level {
	switch {
	case skills.HasToken(description, "c1"):
		return language.C1
	case skills.HasToken(description, "b2"):
		return language.B2
	default:
		return language.B1
	}
}

func locationType(location, description string) LocationType {
	text := location + " " + description
	switch {
	case skills.HasToken(text, "remote"):
		return LocationRemote
	case skills.HasToken(text, "hybrid"):
		return LocationHybrid
	default:
		return LocationOnsite
	}
}

func isListed(skill string, list []string) bool {
	normalized := skills.Normalize(skill)
	for _, item := range list {
		if skills.Normalize(item) == normalized {
			return true
		}
	}
	return false
}

// CandidateAnalyzer summarizes what a talent brings.
type CandidateAnalyzer struct {
	Tracks *vocab.Tracks
}

var _ Tool[model.TalentProfile, CandidateProfile] = (*CandidateAnalyzer)(nil)

func (a *CandidateAnalyzer) Name() string { return "candidate_analyzer" }

func (a *CandidateAnalyzer) Execute(ctx context.Context, talent model.TalentProfile) (CandidateProfile, error) {
	if err := ctx.Err(); err != nil {
		return CandidateProfile{}, err
	}

	tracks := a.Tracks
	if tracks == nil {
		tracks = vocab.DefaultTracks()
	}

	german := language.GermanLevel(talent.Languages)
	profile := CandidateProfile{
		Skills:      append([]string{}, talent.Skills...),
		GermanLevel: german,
		GermanTier:  language.TierOf(german),
		Experience:  talent.Experience(),
		SAPSkills:   []string{},
		Readiness:   ReadinessUncertified,
	}

	markers := append([]string{"sap"}, tracks.Names()...)
	for _, skill := range talent.Skills {
		for _, marker := range markers {
			if skills.HasToken(skill, marker) {
				profile.SAPSkills = append(profile.SAPSkills, skill)
				break
			}
		}
	}

	if language.HasAdvancedTag(talent.Languages) {
		profile.Readiness = ReadinessCertified
	}

	return profile, nil
}
