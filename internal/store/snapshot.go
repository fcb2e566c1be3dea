// Package store reads talent and job snapshots from disk and keeps the applications journal.
package store

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/spigell/talent-matcher/internal/model"
)

// Source provides already materialized talents and jobs.
type Source interface {
	Talents(ctx context.Context) ([]*model.TalentProfile, error)
	Jobs(ctx context.Context) ([]*model.Job, error)
}

// Snapshot is a point-in-time export of talents and jobs.
type Snapshot struct {
	TalentItems []*model.TalentProfile `mapstructure:"talents"`
	JobItems    []*model.Job           `mapstructure:"jobs"`
}

var _ Source = (*Snapshot)(nil)

// LoadSnapshot reads a YAML or JSON snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes YAML, which also covers JSON documents.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	snapshot := &Snapshot{}
	if err := Decode(raw, snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return snapshot, nil
}

// Decode maps loosely typed records, as read from YAML or a JSON API, onto model types.
func Decode(input, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func (s *Snapshot) Talents(context.Context) ([]*model.TalentProfile, error) {
	return s.TalentItems, nil
}

func (s *Snapshot) Jobs(context.Context) ([]*model.Job, error) {
	return s.JobItems, nil
}
