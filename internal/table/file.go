package table

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrNotFound is returned when a table file does not exist.
	ErrNotFound = eris.New("table: file not found")
	// ErrEmptyFile is returned for a zero-byte table file.
	ErrEmptyFile = eris.New("table: file is empty")
	// ErrNoHeader is returned when a file has no header row.
	ErrNoHeader = eris.New("table: missing header row")
	// ErrNoRows is returned when a file has a header but no records.
	ErrNoRows = eris.New("table: no data rows")
)

// Check reports why the table file at path cannot be used, or nil when it
// exists, is non-empty, parses, and has at least one record.
func Check(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return eris.Wrapf(err, "table: stat %s", path)
	}
	if info.Size() == 0 {
		return ErrEmptyFile
	}

	t, err := Load(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNoHeader) {
			return ErrNoRows
		}
		return err
	}
	if t.Empty() {
		return ErrNoRows
	}
	return nil
}

// Valid reports whether the table file at path is usable.
func Valid(ctx context.Context, path string) bool {
	return Check(ctx, path) == nil
}

// Load reads a table file, choosing the format from its extension.
func Load(ctx context.Context, path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path, "")
	case ".csv", "":
		return ReadCSV(ctx, path)
	default:
		return nil, eris.Errorf("table: unsupported file type %q", filepath.Ext(path))
	}
}
