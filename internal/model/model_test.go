package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTalentsExcludeKeepsOrder(t *testing.T) {
	talents := NewTalents(
		&TalentProfile{ID: "t1"},
		&TalentProfile{ID: "t2"},
		&TalentProfile{ID: "t3"},
		&TalentProfile{ID: "t4"},
	)

	removed := talents.Exclude(TalentIDField, []string{"t3", "t1", "missing"})

	if diff := cmp.Diff([]string{"t1", "t3"}, removed); diff != "" {
		t.Fatalf("unexpected removed ids (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"t2", "t4"}, talents.IDs()); diff != "" {
		t.Fatalf("unexpected remaining ids (-want +got):\n%s", diff)
	}
}

func TestTalentsExcludePlaced(t *testing.T) {
	talents := NewTalents(
		&TalentProfile{ID: "t1", PlacementStatus: StatusPlaced},
		&TalentProfile{ID: "t2", PlacementStatus: StatusJobReady},
		&TalentProfile{ID: "t3", PlacementStatus: "placed"},
	)

	removed := talents.ExcludePlaced()

	if diff := cmp.Diff([]string{"t1", "t3"}, removed); diff != "" {
		t.Fatalf("unexpected removed ids (-want +got):\n%s", diff)
	}
	if talents.Len() != 1 || talents.Items[0].ID != "t2" {
		t.Fatalf("expected only t2 to remain, got %v", talents.IDs())
	}
}

func TestTalentsCloneIsIndependent(t *testing.T) {
	original := NewTalents(&TalentProfile{ID: "t1", PlacementStatus: StatusPlaced}, &TalentProfile{ID: "t2"})

	clone := original.Clone()
	clone.ExcludePlaced()

	if original.Len() != 2 {
		t.Fatalf("expected original list untouched, got %v", original.IDs())
	}
	if clone.Len() != 1 {
		t.Fatalf("expected clone to drop placed talent, got %v", clone.IDs())
	}
}

func TestTalentExperienceNeverNegative(t *testing.T) {
	talent := &TalentProfile{YearsOfExperience: -3}
	if got := talent.Experience(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}

	var missing *TalentProfile
	if got := missing.Experience(); got != 0 {
		t.Fatalf("expected 0 for nil talent, got %d", got)
	}
}

func TestJobsOpenOnly(t *testing.T) {
	jobs := NewJobs(
		&Job{ID: "j1", Status: JobOpen},
		&Job{ID: "j2", Status: JobClosed},
		&Job{ID: "j3", Status: "open"},
	)

	open := jobs.OpenOnly()

	if diff := cmp.Diff([]string{"j1", "j3"}, open.IDs()); diff != "" {
		t.Fatalf("unexpected open jobs (-want +got):\n%s", diff)
	}
	if jobs.Len() != 3 {
		t.Fatalf("expected receiver untouched, got %d jobs", jobs.Len())
	}
}

func TestJobLocationText(t *testing.T) {
	remote := "Remote"
	job := &Job{Location: &remote}
	if job.LocationText() != "Remote" {
		t.Fatalf("unexpected location: %q", job.LocationText())
	}

	if (&Job{}).LocationText() != "" {
		t.Fatalf("expected empty location for nil pointer")
	}
}

func TestJobsExcludeByCompany(t *testing.T) {
	jobs := NewJobs(
		&Job{ID: "j1", CompanyID: "c1"},
		&Job{ID: "j2", CompanyID: "c2"},
	)

	removed := jobs.Exclude(JobCompanyIDField, []string{"c1"})

	if diff := cmp.Diff([]string{"j1"}, removed); diff != "" {
		t.Fatalf("unexpected removed ids (-want +got):\n%s", diff)
	}
	if jobs.FindByID("j2") == nil || jobs.FindByID("j1") != nil {
		t.Fatalf("unexpected jobs left: %v", jobs.IDs())
	}
}

func TestListsSkipNilEntries(t *testing.T) {
	talents := NewTalents(nil, &TalentProfile{ID: "t1"}, nil)
	if got := talents.FindByID("t1"); got == nil || got.ID != "t1" {
		t.Fatalf("unexpected talent: %+v", got)
	}
	if talents.FindByID("t9") != nil {
		t.Fatal("expected no talent")
	}
	if diff := cmp.Diff([]string{"t1"}, talents.IDs()); diff != "" {
		t.Fatalf("unexpected talent ids (-want +got):\n%s", diff)
	}

	jobs := NewJobs(&Job{ID: "j1", Title: "ABAP Developer"}, nil, &Job{ID: "j2", Title: "FICO Consultant"})
	if jobs.FindByID("j9") != nil || jobs.FindByID("j2") == nil {
		t.Fatalf("unexpected lookup over %v", jobs.IDs())
	}
	if diff := cmp.Diff([]string{"j1", "j2"}, jobs.IDs()); diff != "" {
		t.Fatalf("unexpected job ids (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"j1 ABAP Developer", "j2 FICO Consultant"}, jobs.Titles()); diff != "" {
		t.Fatalf("unexpected titles (-want +got):\n%s", diff)
	}

	removed := jobs.Exclude(JobIDField, []string{"j1"})
	if diff := cmp.Diff([]string{"j1"}, removed); diff != "" {
		t.Fatalf("unexpected removed ids (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"j2"}, jobs.IDs()); diff != "" {
		t.Fatalf("unexpected job ids after exclude (-want +got):\n%s", diff)
	}
	if jobs.Len() != 1 {
		t.Fatalf("expected nil entries to be dropped, got %d items", jobs.Len())
	}

	var none *Jobs
	if none.FindByID("j1") != nil || len(none.IDs()) != 0 || none.Exclude(JobIDField, []string{"j1"}) != nil {
		t.Fatal("expected a nil list to behave as empty")
	}
}
