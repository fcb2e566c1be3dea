package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/store"
)

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes talents listed in an exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = strings.TrimSpace(cfg.ExcludeFile)
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, t *model.Talents) (*model.Talents, Step, error) {
	initial := t.Len()
	if f.path == "" {
		return t, unchanged(t), nil
	}

	excluded, err := store.ReadExcludeFile(f.path)
	if err != nil {
		return t, Step{}, fmt.Errorf("getting excluded talents from file: %w", err)
	}

	removed := t.Exclude(model.TalentIDField, excluded.IDs())
	if len(removed) > 0 {
		deps.Logger.Info("excluding talents based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_talents", removed),
			zap.Int("talents_left", t.Len()),
		)
	}

	return t, Step{Initial: initial, Dropped: len(removed), Left: t.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return f.status(f.Name(), details)
}
