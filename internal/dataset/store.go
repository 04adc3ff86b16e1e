package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dharti-cli/internal/table"
)

// FileError explains why a cached file cannot be used. Err is one of the
// table sentinels (ErrNotFound, ErrEmptyFile, ErrNoRows) or a read error.
type FileError struct {
	Path   string
	Source Source
	Err    error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("dataset: %s file %s: %v", e.Source, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Store lays out cached tables as flat files: the latest fetch in one
// directory and the promoted copy in another, under the same file name.
type Store struct {
	apiDir   string
	savedDir string
	now      func() time.Time
}

// NewStore creates a store over the two cache directories.
func NewStore(apiDir, savedDir string) *Store {
	return &Store{apiDir: apiDir, savedDir: savedDir, now: time.Now}
}

// Init creates both cache directories.
func (s *Store) Init() error {
	for _, dir := range []string{s.apiDir, s.savedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "store: create %s", dir)
		}
	}
	return nil
}

// Dir returns the directory backing a source.
func (s *Store) Dir(src Source) string {
	if src == SourceSaved {
		return s.savedDir
	}
	return s.apiDir
}

// Path returns the cached file path of ds for a source.
func (s *Store) Path(ds Dataset, src Source) string {
	return filepath.Join(s.Dir(src), ds.Filename())
}

// SaveFetched writes a freshly fetched table and its manifest to the API
// directory, replacing the previous fetch.
func (s *Store) SaveFetched(ds Dataset, t *table.Table, m Manifest) (string, error) {
	path := s.Path(ds, SourceAPI)
	if err := table.WriteCSV(path, t); err != nil {
		return "", eris.Wrapf(err, "store: save %s", ds.Name())
	}

	m.Dataset = ds.Name()
	m.Topic = ds.Topic()
	m.Rows = t.Len()
	m.Columns = t.Columns
	if m.FetchedAt.IsZero() {
		m.FetchedAt = s.now().UTC()
	}
	if err := WriteManifest(ManifestPath(path), &m); err != nil {
		return "", err
	}
	return path, nil
}

// Promote copies the fetched file of ds over its saved copy, keeping the
// modification time, and carries the manifest along.
func (s *Store) Promote(ctx context.Context, ds Dataset) (string, error) {
	src, err := s.Resolve(ctx, ds, SourceAPI)
	if err != nil {
		return "", err
	}
	dst := s.Path(ds, SourceSaved)
	if err := copyFile(src, dst); err != nil {
		return "", eris.Wrapf(err, "store: promote %s", ds.Name())
	}

	m, err := ReadManifest(ManifestPath(src))
	if err != nil {
		return "", err
	}
	if m != nil {
		now := s.now().UTC()
		m.PromotedAt = &now
		if err := WriteManifest(ManifestPath(dst), m); err != nil {
			return "", err
		}
	} else if err := os.Remove(ManifestPath(dst)); err != nil && !os.IsNotExist(err) {
		return "", eris.Wrapf(err, "store: drop stale manifest for %s", ds.Name())
	}

	zap.L().Info("promoted dataset",
		zap.String("dataset", ds.Name()),
		zap.String("path", dst),
	)
	return dst, nil
}

// Resolve returns the path of a usable cached file, or a *FileError saying
// why there is none.
func (s *Store) Resolve(ctx context.Context, ds Dataset, src Source) (string, error) {
	path := s.Path(ds, src)
	if err := table.Check(ctx, path); err != nil {
		return "", &FileError{Path: path, Source: src, Err: err}
	}
	return path, nil
}

// Manifest returns the manifest of a cached file, or nil when it has none.
func (s *Store) Manifest(ds Dataset, src Source) (*Manifest, error) {
	return ReadManifest(ManifestPath(s.Path(ds, src)))
}

// FileStatus summarizes one cached copy of a dataset.
type FileStatus struct {
	Source   Source
	Path     string
	Err      error // nil when the file is usable
	Manifest *Manifest
}

// Status reports the state of both cached copies of ds.
func (s *Store) Status(ctx context.Context, ds Dataset) []FileStatus {
	out := make([]FileStatus, 0, 2)
	for _, src := range []Source{SourceAPI, SourceSaved} {
		st := FileStatus{Source: src, Path: s.Path(ds, src)}
		if _, err := s.Resolve(ctx, ds, src); err != nil {
			st.Err = err
		}
		m, err := s.Manifest(ds, src)
		if err != nil && st.Err == nil {
			st.Err = err
		}
		st.Manifest = m
		out = append(out, st)
	}
	return out
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
