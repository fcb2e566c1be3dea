package model

import "strings"

const (
	TalentIDField     = "ID"
	TalentUserIDField = "UserID"
	TalentTrackField  = "SAPTrack"
)

type PlacementStatus string

const (
	StatusLearning PlacementStatus = "LEARNING"
	StatusJobReady PlacementStatus = "JOB_READY"
	StatusPlaced   PlacementStatus = "PLACED"
	StatusInactive PlacementStatus = "INACTIVE"
)

// TalentProfile is a candidate record as stored by the backend.
type TalentProfile struct {
	ID                string          `json:"id" yaml:"id" mapstructure:"id"`
	UserID            string          `json:"user_id,omitempty" yaml:"user_id" mapstructure:"user_id"`
	Skills            []string        `json:"skills,omitempty" yaml:"skills" mapstructure:"skills"`
	Languages         []string        `json:"languages,omitempty" yaml:"languages" mapstructure:"languages"`
	YearsOfExperience int             `json:"years_of_experience" yaml:"years_of_experience" mapstructure:"years_of_experience"`
	Availability      bool            `json:"availability" yaml:"availability" mapstructure:"availability"`
	PlacementStatus   PlacementStatus `json:"placement_status,omitempty" yaml:"placement_status" mapstructure:"placement_status"`
	ReadinessScore    int             `json:"readiness_score" yaml:"readiness_score" mapstructure:"readiness_score"`
	SAPTrack          string          `json:"sap_track,omitempty" yaml:"sap_track" mapstructure:"sap_track"`
}

// Experience returns the years of experience, never negative.
func (t *TalentProfile) Experience() int {
	if t == nil || t.YearsOfExperience < 0 {
		return 0
	}
	return t.YearsOfExperience
}

func (t *TalentProfile) IsPlaced() bool {
	return t != nil && strings.EqualFold(string(t.PlacementStatus), string(StatusPlaced))
}

func (t *TalentProfile) GetStringField(name string) string {
	switch name {
	case TalentIDField:
		return t.ID
	case TalentUserIDField:
		return t.UserID
	case TalentTrackField:
		return t.SAPTrack
	default:
		return ""
	}
}

type Talents struct {
	Items []*TalentProfile
}

func NewTalents(items ...*TalentProfile) *Talents {
	return &Talents{Items: items}
}

func (t *Talents) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Items)
}

// IDs lists talent ids in order. Nil entries are skipped here and in FindByID.
func (t *Talents) IDs() []string {
	ids := make([]string, 0, t.Len())
	if t == nil {
		return ids
	}
	for _, talent := range t.Items {
		if talent != nil {
			ids = append(ids, talent.ID)
		}
	}
	return ids
}

func (t *Talents) FindByID(id string) *TalentProfile {
	if t == nil {
		return nil
	}
	for _, talent := range t.Items {
		if talent != nil && talent.ID == id {
			return talent
		}
	}
	return nil
}

// Clone returns a shallow copy of the list so filters can drop items without touching the caller's slice.
func (t *Talents) Clone() *Talents {
	if t == nil {
		return &Talents{}
	}
	items := make([]*TalentProfile, len(t.Items))
	copy(items, t.Items)
	return &Talents{Items: items}
}

// Exclude removes talents whose field matches any of the targets and returns the removed ids.
// Order of the remaining talents is preserved.
func (t *Talents) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[target] = struct{}{}
	}

	return t.RemoveFunc(func(talent *TalentProfile) bool {
		_, ok := set[talent.GetStringField(name)]
		return ok
	})
}

// ExcludePlaced drops talents already placed with a company.
func (t *Talents) ExcludePlaced() []string {
	return t.RemoveFunc((*TalentProfile).IsPlaced)
}

// RemoveFunc drops every talent for which drop returns true, keeping order, and returns the dropped ids.
func (t *Talents) RemoveFunc(drop func(*TalentProfile) bool) []string {
	var removed []string
	kept := t.Items[:0]
	for _, talent := range t.Items {
		if talent == nil {
			continue
		}
		if drop(talent) {
			removed = append(removed, talent.ID)
			continue
		}
		kept = append(kept, talent)
	}

	for i := len(kept); i < len(t.Items); i++ {
		t.Items[i] = nil
	}
	t.Items = kept

	return removed
}
