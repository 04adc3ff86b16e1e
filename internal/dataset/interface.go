// Package dataset defines the open-data tables the tool works with, their
// typed rows, and the flat-file store that caches them.
package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Source selects which cached copy of a dataset to read.
type Source int

const (
	SourceAPI   Source = iota + 1 // most recent fetch, data/api_data
	SourceSaved                   // promoted copy, data/SavedData
)

// String returns the flag value for the source.
func (s Source) String() string {
	switch s {
	case SourceAPI:
		return "api"
	case SourceSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Label returns the menu wording for the source.
func (s Source) Label() string {
	switch s {
	case SourceAPI:
		return "API Fresh Data"
	case SourceSaved:
		return "Old Saved Data"
	default:
		return "Unknown"
	}
}

// ParseSource converts "api" or "saved" into a Source.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "api", "fresh":
		return SourceAPI, nil
	case "saved":
		return SourceSaved, nil
	default:
		return 0, eris.Errorf("unknown source: %q (valid: api, saved)", s)
	}
}

// Dataset describes one api.data.gov.in resource.
type Dataset interface {
	// Name returns the unique identifier (e.g., "plastic_waste").
	Name() string

	// Topic returns the human-readable label used in menus and progress output.
	Topic() string

	// ResourceID returns the api.data.gov.in resource identifier.
	ResourceID() string

	// Filename returns the flat-file name used in both cache directories.
	Filename() string

	// StateColumn returns the column naming the state or union territory.
	StateColumn() string

	// Description returns a one-line summary for listings.
	Description() string
}
