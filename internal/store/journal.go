package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spigell/talent-matcher/internal/pipeline"
)

var ErrApplicationNotFound = errors.New("application not found")

// Journal keeps applications and their stage history in a JSON file.
type Journal struct {
	path  string
	clock func() time.Time

	mu   sync.RWMutex
	apps []*pipeline.Application
}

type journalFile struct {
	Applications []*pipeline.Application `json:"applications"`
}

// OpenJournal loads the journal at path. A missing or empty file yields an empty journal.
func OpenJournal(path string) (*Journal, error) {
	j := &Journal{path: path, clock: time.Now}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	if len(data) == 0 {
		return j, nil
	}

	var file journalFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse journal %s: %w", path, err)
	}
	for _, app := range file.Applications {
		if app == nil {
			continue
		}
		if !app.Stage.Known() {
			return nil, fmt.Errorf("journal %s: talent %s, job %s: %w: %q", path, app.TalentID, app.JobID, pipeline.ErrUnknownStage, app.Stage)
		}
		j.apps = append(j.apps, app)
	}

	return j, nil
}

// Find returns the application of talent for job.
func (j *Journal) Find(talentID, jobID string) (*pipeline.Application, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if app := j.find(talentID, jobID); app != nil {
		return app, nil
	}
	return nil, fmt.Errorf("%w: talent %s, job %s", ErrApplicationNotFound, talentID, jobID)
}

func (j *Journal) find(talentID, jobID string) *pipeline.Application {
	for _, app := range j.apps {
		if app.TalentID == talentID && app.JobID == jobID {
			return app
		}
	}
	return nil
}

// Transition moves an application to the target stage. Shortlisting an unknown pair starts a new application.
func (j *Journal) Transition(talentID, jobID string, to pipeline.Stage) (*pipeline.Application, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	app := j.find(talentID, jobID)
	if app == nil {
		if to != pipeline.StageShortlisted {
			return nil, fmt.Errorf("%w: talent %s, job %s", ErrApplicationNotFound, talentID, jobID)
		}
		app = pipeline.NewApplication(talentID, jobID)
		j.apps = append(j.apps, app)
		return app, nil
	}

	if err := app.Advance(to, j.clock().UTC()); err != nil {
		return nil, err
	}
	return app, nil
}

// TalentIDsForJob lists talents that already have an application for the job.
func (j *Journal) TalentIDsForJob(jobID string) []string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var ids []string
	for _, app := range j.apps {
		if app.JobID == jobID {
			ids = append(ids, app.TalentID)
		}
	}
	return ids
}

func (j *Journal) Applications() []*pipeline.Application {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]*pipeline.Application, len(j.apps))
	copy(out, j.apps)
	return out
}

// Save writes the journal through a temporary file so readers never see a partial document.
func (j *Journal) Save() error {
	j.mu.RLock()
	data, err := json.MarshalIndent(journalFile{Applications: j.apps}, "", "  ")
	j.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal journal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(j.path), ".journal-*.json")
	if err != nil {
		return fmt.Errorf("create temp journal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}

	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("replace journal: %w", err)
	}
	return nil
}
