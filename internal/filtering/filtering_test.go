package filtering

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/search"
)

type fakeApplications map[string][]string

func (f fakeApplications) TalentIDsForJob(jobID string) []string {
	return f[jobID]
}

func pool() *model.Talents {
	return model.NewTalents(
		&model.TalentProfile{ID: "placed", PlacementStatus: model.StatusPlaced, Availability: true, SAPTrack: "ABAP"},
		&model.TalentProfile{ID: "busy", Availability: false, SAPTrack: "ABAP", Skills: []string{"ABAP", "SAP HANA", "OData", "SAP Fiori"}},
		&model.TalentProfile{ID: "applied", Availability: true, SAPTrack: "ABAP", Skills: []string{"ABAP"}},
		&model.TalentProfile{ID: "listed", Availability: true, SAPTrack: "ABAP", Skills: []string{"ABAP"}},
		&model.TalentProfile{ID: "fico", Availability: true, SAPTrack: "FICO", Skills: []string{"Controlling"}},
		&model.TalentProfile{ID: "junior", Availability: true, SAPTrack: "ABAP", Skills: []string{"ABAP"}},
		&model.TalentProfile{ID: "ready", Availability: true, SAPTrack: "ABAP", Skills: []string{"ABAP", "SAP HANA", "OData", "SAP Fiori"}},
	)
}

func writeExcludeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exclude.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}
	return path
}

func ids(t *model.Talents) []string {
	return t.IDs()
}

func TestRunAllSteps(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	deps := Deps{
		Logger:       zap.New(core),
		Applications: fakeApplications{"j1": {"applied"}},
	}
	cfg := &Config{
		JobID:            "j1",
		RequireAvailable: true,
		ExcludeFile:      writeExcludeFile(t, `{"Items": [{"ID": "listed", "Reason": "manual"}]}`),
		Criteria:         search.Criteria{Track: "ABAP"},
		MinScore:         100,
		MinReadiness:     80,
	}

	got, err := Run(context.Background(), cfg, deps, Default(), pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"ready"}, ids(got)); diff != "" {
		t.Fatalf("unexpected talents (-want +got):\n%s", diff)
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 6 {
		t.Fatalf("expected 6 logged steps, got %d", len(steps))
	}
	for _, entry := range steps {
		if entry.ContextMap()["dropped"] != int64(1) {
			t.Fatalf("expected each step to drop one talent: %v", entry.ContextMap())
		}
	}
}

func TestRunPassThroughWithEmptyConfig(t *testing.T) {
	got, err := Run(context.Background(), nil, Deps{}, Default(), pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// only placed talents are removed unconditionally
	if got.Len() != 6 || got.FindByID("placed") != nil {
		t.Fatalf("unexpected talents: %v", ids(got))
	}
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	steps := Default()
	DisableByName(steps, "placed", "dry run")

	got, err := Run(context.Background(), &Config{}, Deps{}, steps, pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 7 {
		t.Fatalf("expected untouched pool, got %v", ids(got))
	}

	statuses := Describe(steps)
	if statuses[0].Name != "placed" || statuses[0].Enabled || statuses[0].Reason != "dry run" {
		t.Fatalf("unexpected status: %+v", statuses[0])
	}
	if !statuses[1].Enabled {
		t.Fatalf("expected availability to stay enabled: %+v", statuses[1])
	}
}

func TestRunValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *Config
		deps Deps
	}{
		{name: "bad min score", cfg: &Config{MinScore: 120}},
		{name: "bad readiness", cfg: &Config{MinReadiness: -1}},
		{name: "bad criteria", cfg: &Config{Criteria: search.Criteria{Experience: "guru"}}},
		{name: "missing journal", cfg: &Config{JobID: "j1"}},
		{name: "missing exclude file", cfg: &Config{ExcludeFile: "/does/not/exist.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Run(context.Background(), tt.cfg, tt.deps, Default(), pool()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, nil, Deps{}, Default(), pool()); err == nil {
		t.Fatal("expected context error")
	}
}

func TestCriteriaQueryUsesSynonyms(t *testing.T) {
	talents := model.NewTalents(
		&model.TalentProfile{ID: "ui5", Skills: []string{"SAPUI5"}},
		&model.TalentProfile{ID: "java", Skills: []string{"Java"}},
	)

	got, err := Run(context.Background(), &Config{Criteria: search.Criteria{Query: "fiori"}}, Deps{}, []Filter{NewCriteria()}, talents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"ui5"}, ids(got)); diff != "" {
		t.Fatalf("unexpected talents (-want +got):\n%s", diff)
	}
}

func TestDescribeDetails(t *testing.T) {
	steps := Default()
	cfg := &Config{JobID: "j1", ExcludeFile: "exclude.json", MinScore: 50, MinReadiness: 60, RequireAvailable: true}
	for _, step := range steps {
		if err := step.Validate(cfg); err != nil {
			t.Fatalf("validate %s: %v", step.Name(), err)
		}
	}

	got := map[string]map[string]string{}
	for _, status := range Describe(steps) {
		got[status.Name] = status.Details
	}

	want := map[string]map[string]string{
		"placed":       nil,
		"availability": {"required": "true"},
		"in_pipeline":  {"job_id": "j1"},
		"exclude_file": {"path": "exclude.json"},
		"criteria":     {"min_score": "50"},
		"readiness":    {"min_readiness": "60"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected statuses (-want +got):\n%s", diff)
	}
}
