package agent

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/talent-matcher/internal/ai"
	"github.com/spigell/talent-matcher/internal/language"
	"github.com/spigell/talent-matcher/internal/model"
)

func ptr(s string) *string { return &s }

func testJob() *model.Job {
	return &model.Job{
		ID:             "j1",
		Title:          "Senior ABAP Developer",
		Description:    "Remote role. German C1 required. Experience with SAP Fiori and OData is a plus.",
		RequiredSkills: []string{"ABAP", "SAP HANA"},
		MinExperience:  3,
		Location:       ptr("Remote"),
		Status:         model.JobOpen,
	}
}

func fakeClock() func() time.Time {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

type stubNarrator struct {
	narrative *ai.Narrative
	err       error
	brief     *ai.Brief
}

func (s *stubNarrator) Narrate(_ context.Context, brief *ai.Brief) (*ai.Narrative, error) {
	s.brief = brief
	return s.narrative, s.err
}

func TestRequirementExtractor(t *testing.T) {
	req, err := (&RequirementExtractor{}).Execute(context.Background(), *testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := JobRequirements{
		Tracks:          []string{"ABAP"},
		MinExperience:   3,
		RequiredSkills:  []string{"ABAP", "SAP HANA"},
		PreferredSkills: []string{"OData", "SAP Fiori"},
		GermanLevel:     language.C1,
		LocationType:    LocationRemote,
	}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Fatalf("unexpected requirements (-want +got):\n%s", diff)
	}
}

func TestRequirementExtractorGermanPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		description string
		want        language.Level
	}{
		{description: "German B2 or C1 welcome", want: language.C1},
		{description: "German B2", want: language.B2},
		{description: "Some German is useful", want: language.B1},
	}

	for _, tt := range tests {
		req, err := (&RequirementExtractor{}).Execute(context.Background(), model.Job{Description: tt.description})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.GermanLevel != tt.want {
			t.Fatalf("%q: expected %s, got %s", tt.description, tt.want, req.GermanLevel)
		}
	}
}

func TestLocationType(t *testing.T) {
	if got := locationType("Munich", "Hybrid setup, 2 days in office"); got != LocationHybrid {
		t.Fatalf("expected hybrid, got %s", got)
	}
	if got := locationType("", "Office based"); got != LocationOnsite {
		t.Fatalf("expected onsite, got %s", got)
	}
}

func TestCandidateAnalyzer(t *testing.T) {
	profile, err := (&CandidateAnalyzer{}).Execute(context.Background(), model.TalentProfile{
		Skills:            []string{"ABAP", "SAP HANA", "Java", "SuccessFactors Recruiting"},
		Languages:         []string{"English"},
		YearsOfExperience: -1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"ABAP", "SAP HANA", "SuccessFactors Recruiting"}, profile.SAPSkills); diff != "" {
		t.Fatalf("unexpected sap skills (-want +got):\n%s", diff)
	}
	if profile.GermanLevel != language.A1 || profile.GermanTier != language.TierBasic {
		t.Fatalf("expected default A1 (basic), got %s (%s)", profile.GermanLevel, profile.GermanTier)
	}
	if profile.Experience != 0 {
		t.Fatalf("expected experience 0, got %d", profile.Experience)
	}
	if profile.Readiness != ReadinessUncertified {
		t.Fatalf("expected %v readiness, got %v", ReadinessUncertified, profile.Readiness)
	}
}

func TestAnalyzeStrongCandidate(t *testing.T) {
	agent := New(nil, WithClock(fakeClock()), WithIDGenerator(func() string { return "insight-1" }))

	talent := &model.TalentProfile{
		ID:                "t1",
		Skills:            []string{"ABAP", "SAP HANA", "Java"},
		Languages:         []string{"German C1", "English"},
		YearsOfExperience: 5,
	}

	insight, err := agent.Analyze(context.Background(), talent, testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if insight.ID != "insight-1" || insight.TalentID != "t1" || insight.JobID != "j1" {
		t.Fatalf("unexpected identifiers: %+v", insight)
	}
	if math.Abs(insight.Score-1) > 1e-9 {
		t.Fatalf("expected score 1, got %v", insight.Score)
	}
	if insight.NextAction != ActionInterview {
		t.Fatalf("expected %q, got %q", ActionInterview, insight.NextAction)
	}
	if len(insight.Risks) != 0 {
		t.Fatalf("expected no risks, got %v", insight.Risks)
	}
	wantStrengths := []string{
		"Covers 2 of 2 required skills",
		"German C1 meets the required C1",
		"5 years of experience meet the minimum of 3",
		"SAP focus: ABAP, SAP HANA",
	}
	if diff := cmp.Diff(wantStrengths, insight.Strengths); diff != "" {
		t.Fatalf("unexpected strengths (-want +got):\n%s", diff)
	}

	steps := make([]string, 0, len(insight.Trace))
	for i, entry := range insight.Trace {
		steps = append(steps, entry.Step)
		if i > 0 && !entry.At.After(insight.Trace[i-1].At) {
			t.Fatalf("trace timestamps not increasing: %+v", insight.Trace)
		}
	}
	if diff := cmp.Diff([]string{"start", "requirement_extractor", "candidate_analyzer", "synthesize"}, steps); diff != "" {
		t.Fatalf("unexpected trace (-want +got):\n%s", diff)
	}
	if !insight.GeneratedAt.After(insight.Trace[len(insight.Trace)-1].At) {
		t.Fatal("expected generation time after last trace entry")
	}
}

func TestAnalyzeWeakCandidate(t *testing.T) {
	insight, err := New(nil).Analyze(context.Background(), &model.TalentProfile{
		ID:                "t2",
		Skills:            []string{"Java"},
		Languages:         []string{"English B2"},
		YearsOfExperience: 1,
	}, testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if insight.Score != 0 {
		t.Fatalf("expected score 0, got %v", insight.Score)
	}
	if insight.NextAction != ActionScreening {
		t.Fatalf("expected %q, got %q", ActionScreening, insight.NextAction)
	}
	wantRisks := []string{
		"Missing skills: ABAP, SAP HANA",
		"German A1 is below the required C1",
		"1 years of experience, 3 required",
	}
	if diff := cmp.Diff(wantRisks, insight.Risks); diff != "" {
		t.Fatalf("unexpected risks (-want +got):\n%s", diff)
	}
	if _, err := uuid.Parse(insight.ID); err != nil {
		t.Fatalf("expected uuid insight id, got %q", insight.ID)
	}
}

func TestAnalyzeIsStatelessAcrossCalls(t *testing.T) {
	agent := New(nil)
	talent := &model.TalentProfile{ID: "t1", Skills: []string{"ABAP"}}

	first, err := agent.Analyze(context.Background(), talent, testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := agent.Analyze(context.Background(), talent, testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Trace) != len(second.Trace) {
		t.Fatalf("trace leaked between calls: %d vs %d", len(first.Trace), len(second.Trace))
	}
	if first.ID == second.ID {
		t.Fatal("expected distinct insight ids")
	}
}

func TestAnalyzeWithNarrator(t *testing.T) {
	narrator := &stubNarrator{narrative: &ai.Narrative{Summary: "Good fit", TalkingPoints: []string{"Fiori"}}}
	agent := New(nil, WithNarrator(narrator))

	insight, err := agent.Analyze(context.Background(), &model.TalentProfile{ID: "t1", Skills: []string{"ABAP"}}, testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if insight.Narrative == nil || insight.Narrative.Summary != "Good fit" {
		t.Fatalf("expected narrative, got %+v", insight.Narrative)
	}
	if narrator.brief == nil || narrator.brief.JobTitle != "Senior ABAP Developer" || narrator.brief.NextAction != insight.NextAction {
		t.Fatalf("unexpected brief: %+v", narrator.brief)
	}
}

func TestAnalyzeNarratorFailureIsNotFatal(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	agent := New(nil, WithNarrator(&stubNarrator{err: errors.New("quota")}), WithLogger(zap.New(core)))

	insight, err := agent.Analyze(context.Background(), &model.TalentProfile{ID: "t1"}, testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if insight.Narrative != nil {
		t.Fatal("expected no narrative")
	}
	last := insight.Trace[len(insight.Trace)-1]
	if last.Step != "narrate" || !strings.Contains(last.Detail, "quota") {
		t.Fatalf("expected failure in trace, got %+v", last)
	}
	if observed.FilterMessage("narrative generation failed").Len() != 1 {
		t.Fatal("expected narrator failure to be logged")
	}
}

type failingTool struct{}

func (failingTool) Name() string { return "failing" }

func (failingTool) Execute(context.Context, model.Job) (JobRequirements, error) {
	return JobRequirements{}, errors.New("broken")
}

func TestAnalyzeErrors(t *testing.T) {
	if _, err := New(nil).Analyze(context.Background(), nil, testJob()); err == nil {
		t.Fatal("expected error for nil talent")
	}
	if _, err := New(nil).Analyze(context.Background(), &model.TalentProfile{}, nil); err == nil {
		t.Fatal("expected error for nil job")
	}

	_, err := New(nil, WithTools(failingTool{}, nil)).Analyze(context.Background(), &model.TalentProfile{}, testJob())
	if err == nil || !strings.Contains(err.Error(), "failing") {
		t.Fatalf("expected tool error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(nil).Analyze(ctx, &model.TalentProfile{}, testJob()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
