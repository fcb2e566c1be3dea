package store

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spigell/talent-matcher/internal/model"
)

// ExcludedTalents is the content of an exclude file.
type ExcludedTalents struct {
	Items []*ExcludedTalent
}

type ExcludedTalent struct {
	ID         string
	Reason     string
	ExcludedAt time.Time
}

// ReadExcludeFile reads an exclude file. An empty file excludes nobody.
func ReadExcludeFile(path string) (*ExcludedTalents, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedTalents{}, nil
	}

	var excluded ExcludedTalents
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// NewExcluded records talents as excluded now for the given reason.
func NewExcluded(talents *model.Talents, reason string, at time.Time) *ExcludedTalents {
	excluded := &ExcludedTalents{}
	for _, talent := range talents.Items {
		excluded.Items = append(excluded.Items, &ExcludedTalent{ID: talent.ID, Reason: reason, ExcludedAt: at.UTC()})
	}
	return excluded
}

func (e *ExcludedTalents) Append(other *ExcludedTalents) {
	if other == nil {
		return
	}
	e.Items = append(e.Items, other.Items...)
}

func (e *ExcludedTalents) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// ToFile replaces the file content with the list.
func (e *ExcludedTalents) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
