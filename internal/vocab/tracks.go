package vocab

import (
	"fmt"
	"sort"
	"strings"
)

const DefaultTrack = "ABAP"

// Tracks maps a track name to its fixed requirement list. It is immutable once built.
type Tracks struct {
	requirements map[string][]string
	names        map[string]string
	fallback     string
}

// DefaultTracks returns the built-in track table with ABAP as fallback.
func DefaultTracks() *Tracks {
	tracks, _ := NewTracks(map[string][]string{
		"ABAP":           {"ABAP", "SAP HANA", "OData", "SAP Fiori", "CDS Views"},
		"FICO":           {"Financial Accounting", "Controlling", "General Ledger", "Asset Accounting", "S/4HANA Finance"},
		"MM":             {"Procurement", "Inventory Management", "Material Master", "Purchase Orders", "Invoice Verification"},
		"SD":             {"Sales Order Processing", "Pricing", "Billing", "Shipping", "Credit Management"},
		"SuccessFactors": {"Employee Central", "Recruiting", "Performance Management", "Compensation", "Learning Management"},
		"BTP":            {"Cloud Foundry", "CAP", "Integration Suite", "SAP Build", "Kyma"},
	}, DefaultTrack)
	return tracks
}

// NewTracks copies the table. fallback must name one of its tracks.
func NewTracks(table map[string][]string, fallback string) (*Tracks, error) {
	t := &Tracks{
		requirements: make(map[string][]string, len(table)),
		names:        make(map[string]string, len(table)),
	}

	for name, reqs := range table {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("track name must not be empty")
		}
		key := strings.ToLower(name)
		if _, ok := t.names[key]; ok {
			return nil, fmt.Errorf("track %q is defined twice", name)
		}
		t.names[key] = name
		t.requirements[name] = append([]string(nil), reqs...)
	}

	resolved, ok := t.names[strings.ToLower(strings.TrimSpace(fallback))]
	if !ok {
		return nil, fmt.Errorf("default track %q is not defined", fallback)
	}
	t.fallback = resolved

	return t, nil
}

// Resolve returns the canonical name of track, or the default track when it is empty or unknown.
func (t *Tracks) Resolve(track string) string {
	if name, ok := t.names[strings.ToLower(strings.TrimSpace(track))]; ok {
		return name
	}
	return t.fallback
}

// Known reports whether the track is defined, ignoring case.
func (t *Tracks) Known(track string) bool {
	_, ok := t.names[strings.ToLower(strings.TrimSpace(track))]
	return ok
}

// Requirements returns the resolved track name and a copy of its requirement list.
func (t *Tracks) Requirements(track string) (string, []string) {
	name := t.Resolve(track)
	reqs := t.requirements[name]
	out := make([]string, len(reqs))
	copy(out, reqs)
	return name, out
}

func (t *Tracks) Default() string {
	return t.fallback
}

// Names returns the sorted track names.
func (t *Tracks) Names() []string {
	names := make([]string, 0, len(t.requirements))
	for name := range t.requirements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllRequirements returns every requirement of every track, deduplicated and sorted.
func (t *Tracks) AllRequirements() []string {
	seen := make(map[string]struct{})
	for _, reqs := range t.requirements {
		for _, r := range reqs {
			seen[r] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
