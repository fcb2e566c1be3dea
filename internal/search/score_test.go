package search

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/skills"
	"github.com/spigell/talent-matcher/internal/vocab"
)

func TestMatchScoreNoActiveFiltersIsFullCredit(t *testing.T) {
	// A talent with no evaluated criteria counts as a perfect match.
	talent := &model.TalentProfile{}

	for _, c := range []Criteria{
		{},
		{Track: All, GermanLevel: "ALL", Experience: " all ", Availability: ""},
	} {
		if got := MatchScore(talent, c); got != 100 {
			t.Fatalf("expected 100 for %+v, got %d", c, got)
		}
	}
}

func TestMatchScore(t *testing.T) {
	t.Parallel()

	talent := &model.TalentProfile{
		SAPTrack:          "FICO",
		Languages:         []string{"German B2", "English C1"},
		YearsOfExperience: 4,
		Availability:      true,
	}

	tests := []struct {
		name     string
		criteria Criteria
		want     int
	}{
		{name: "track only matching", criteria: Criteria{Track: "fico"}, want: 100},
		{name: "track only failing", criteria: Criteria{Track: "MM"}, want: 0},
		{name: "all matching", criteria: Criteria{Track: "FICO", GermanLevel: "intermediate", Experience: "mid", Availability: "available"}, want: 100},
		// track 30 + experience 25 + availability 20 earned of 100
		{name: "german too high", criteria: Criteria{Track: "FICO", GermanLevel: "advanced", Experience: "mid", Availability: "available"}, want: 75},
		// german 25 earned of german 25 + experience 25
		{name: "partial set not penalized", criteria: Criteria{GermanLevel: "basic", Experience: "senior"}, want: 50},
		{name: "unavailable wanted", criteria: Criteria{Availability: "unavailable"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MatchScore(talent, tt.criteria); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCriteriaValidate(t *testing.T) {
	if err := (Criteria{GermanLevel: "fluent", Experience: "guru", Availability: "maybe"}).Validate(); err == nil {
		t.Fatal("expected validation errors")
	}
	if err := (Criteria{Track: "anything", GermanLevel: "all", Experience: "junior", Availability: "Available"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCriteriaAreTrimmed(t *testing.T) {
	talent := &model.TalentProfile{SAPTrack: "FICO", Availability: true}
	c := Criteria{Track: " FICO ", Availability: " available", Experience: "junior "}

	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// track 30 + availability 20 + experience 25 (0 years is junior)
	if got := MatchScore(talent, c); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{name: "defaults", weights: DefaultWeights()},
		{name: "single criterion", weights: Weights{Track: 1}},
		{name: "all zero", weights: Weights{}, wantErr: true},
		{name: "negative", weights: Weights{Track: 50, Availability: -10}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.weights.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSearcherIgnoresUnusableWeights(t *testing.T) {
	searcher := &Searcher{Synonyms: vocab.DefaultSynonyms(), Matcher: skills.DefaultMatcher}
	talent := &model.TalentProfile{ID: "t1", SAPTrack: "ABAP", Availability: false}

	if got := searcher.Score(talent, Criteria{Track: "FICO", Availability: Available}); got != 0 {
		t.Fatalf("expected a talent failing every active filter to score 0, got %d", got)
	}
}

func TestSearcherSearch(t *testing.T) {
	searcher := &Searcher{Weights: DefaultWeights(), Synonyms: vocab.DefaultSynonyms(), Matcher: skills.DefaultMatcher}

	talents := []*model.TalentProfile{
		{ID: "erp", Skills: []string{"ERP rollout"}, SAPTrack: "MM"},
		{ID: "abap", Skills: []string{"ABAP"}, SAPTrack: "ABAP"},
		{ID: "hana", Skills: []string{"HANA modeling"}, SAPTrack: "ABAP"},
		nil,
		{ID: "java", Skills: []string{"Java"}, SAPTrack: "ABAP"},
	}

	hits := searcher.Search(talents, Criteria{Track: "ABAP", Query: "SAP"}, 0)

	want := []Hit{{TalentID: "hana", Score: 100}, {TalentID: "erp", Score: 0}}
	if diff := cmp.Diff(want, hits); diff != "" {
		t.Fatalf("unexpected hits (-want +got):\n%s", diff)
	}

	hits = searcher.Search(talents, Criteria{Track: "ABAP"}, 50)
	got := make([]string, 0, len(hits))
	for _, h := range hits {
		got = append(got, h.TalentID)
	}
	if diff := cmp.Diff([]string{"abap", "hana", "java"}, got); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
}
