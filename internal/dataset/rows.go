package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// ErrMissingColumn is returned when a cached file lacks a required column.
var ErrMissingColumn = eris.New("dataset: required column missing")

// loadRows decodes every record of the CSV file at path into T. The header
// must contain each of the required columns; other struct columns may be
// absent and decode as empty.
func loadRows[T any](path string, required ...string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.Errorf("dataset: %s has no header", path)
		}
		return nil, eris.Wrapf(err, "dataset: read header of %s", path)
	}

	header := dec.Header()
	for _, col := range required {
		if !slices.Contains(header, col) {
			return nil, eris.Wrapf(ErrMissingColumn, "dataset: %s lacks column %q", path, col)
		}
	}

	var rows []T
	for {
		var row T
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrapf(err, "dataset: decode %s line %d", path, len(rows)+2)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FindState returns the first row whose state matches name, ignoring case
// and surrounding whitespace.
func FindState[T any](rows []T, name string, state func(T) string) (T, bool) {
	name = strings.TrimSpace(name)
	for _, r := range rows {
		if strings.EqualFold(strings.TrimSpace(state(r)), name) {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// States lists the distinct state names in first-seen order.
func States[T any](rows []T, state func(T) string) []string {
	seen := make(map[string]bool, len(rows))
	var out []string
	for _, r := range rows {
		s := strings.TrimSpace(state(r))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
