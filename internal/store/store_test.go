package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/pipeline"
)

const yamlSnapshot = `
talents:
  - id: t1
    user_id: u1
    skills: [ABAP, SAP HANA]
    languages: ["German B2"]
    years_of_experience: 4
    availability: true
    placement_status: JOB_READY
    sap_track: ABAP
  - id: t2
    years_of_experience: "2"
jobs:
  - id: j1
    title: ABAP Developer
    location: Berlin, Germany
    required_skills: [ABAP]
    min_experience: 3
    status: OPEN
  - id: j2
    location: null
    status: CLOSED
`

func TestParseSnapshotYAML(t *testing.T) {
	snapshot, err := ParseSnapshot([]byte(yamlSnapshot))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	talents, _ := snapshot.Talents(context.Background())
	jobs, _ := snapshot.Jobs(context.Background())

	if len(talents) != 2 || len(jobs) != 2 {
		t.Fatalf("unexpected sizes: %d talents, %d jobs", len(talents), len(jobs))
	}

	want := &model.TalentProfile{
		ID:                "t1",
		UserID:            "u1",
		Skills:            []string{"ABAP", "SAP HANA"},
		Languages:         []string{"German B2"},
		YearsOfExperience: 4,
		Availability:      true,
		PlacementStatus:   model.StatusJobReady,
		SAPTrack:          "ABAP",
	}
	if diff := cmp.Diff(want, talents[0]); diff != "" {
		t.Fatalf("unexpected talent (-want +got):\n%s", diff)
	}
	if talents[1].YearsOfExperience != 2 {
		t.Fatalf("expected weakly typed years to decode, got %d", talents[1].YearsOfExperience)
	}

	if jobs[0].LocationText() != "Berlin, Germany" || !jobs[0].IsOpen() {
		t.Fatalf("unexpected job: %+v", jobs[0])
	}
	if jobs[1].Location != nil {
		t.Fatalf("expected nil location, got %q", *jobs[1].Location)
	}
}

func TestParseSnapshotJSON(t *testing.T) {
	snapshot, err := ParseSnapshot([]byte(`{"talents": [{"id": "t1", "skills": ["FI"]}], "jobs": []}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.TalentItems) != 1 || snapshot.TalentItems[0].Skills[0] != "FI" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestJournalLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.json")

	journal, err := OpenJournal(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	journal.clock = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	if _, err := journal.Transition("t1", "j1", pipeline.StageInterviewing); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}

	if _, err := journal.Transition("t1", "j1", pipeline.StageShortlisted); err != nil {
		t.Fatalf("shortlist: %v", err)
	}
	if _, err := journal.Transition("t1", "j1", pipeline.StageOffered); !errors.Is(err, pipeline.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := journal.Transition("t1", "j1", pipeline.StageInterviewRequested); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := journal.Transition("t2", "j1", pipeline.StageShortlisted); err != nil {
		t.Fatalf("shortlist: %v", err)
	}

	if err := journal.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := OpenJournal(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	app, err := reopened.Find("t1", "j1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if app.Stage != pipeline.StageInterviewRequested || len(app.History) != 1 {
		t.Fatalf("unexpected application: %+v", app)
	}
	if !app.History[0].At.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected history time: %s", app.History[0].At)
	}

	if diff := cmp.Diff([]string{"t1", "t2"}, reopened.TalentIDsForJob("j1")); diff != "" {
		t.Fatalf("unexpected talent ids (-want +got):\n%s", diff)
	}
	if len(reopened.TalentIDsForJob("j2")) != 0 {
		t.Fatal("expected no applications for j2")
	}
	if _, err := reopened.Find("t3", "j1"); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestOpenJournalRejectsUnknownStage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.json")
	if err := os.WriteFile(path, []byte(`{"applications": [{"talent_id": "t1", "job_id": "j1", "stage": "applied"}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := OpenJournal(path); !errors.Is(err, pipeline.ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
}

func TestExcludeFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	empty, err := ReadExcludeFile(path)
	if err != nil {
		t.Fatalf("read empty: %v", err)
	}
	if len(empty.IDs()) != 0 {
		t.Fatalf("expected no ids, got %v", empty.IDs())
	}

	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	empty.Append(NewExcluded(model.NewTalents(&model.TalentProfile{ID: "t1"}, &model.TalentProfile{ID: "t2"}), "hired", at))
	if err := empty.ToFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	excluded, err := ReadExcludeFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff([]string{"t1", "t2"}, excluded.IDs()); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	if excluded.Items[0].Reason != "hired" || !excluded.Items[0].ExcludedAt.Equal(at) {
		t.Fatalf("unexpected item: %+v", excluded.Items[0])
	}
}
