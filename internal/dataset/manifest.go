package dataset

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// manifestSuffix is appended to a cached file's path to name its manifest.
const manifestSuffix = ".meta.yaml"

// Manifest records where a cached file came from. It is written next to
// every fetched file and copied along when the file is promoted.
type Manifest struct {
	FetchID    string     `yaml:"fetch_id"`
	Dataset    string     `yaml:"dataset"`
	Topic      string     `yaml:"topic"`
	SourceURL  string     `yaml:"source_url"`
	FetchedAt  time.Time  `yaml:"fetched_at"`
	Attempts   int        `yaml:"attempts"`
	Rows       int        `yaml:"rows"`
	Columns    []string   `yaml:"columns"`
	PromotedAt *time.Time `yaml:"promoted_at,omitempty"`
}

// ManifestPath returns the manifest location for a cached file.
func ManifestPath(dataPath string) string {
	return dataPath + manifestSuffix
}

// WriteManifest stores m as YAML at path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return eris.Wrap(err, "manifest: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "manifest: write %s", path)
	}
	return nil
}

// ReadManifest loads the manifest at path. A missing manifest returns
// (nil, nil); files cached by hand have none.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "manifest: read %s", path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "manifest: parse %s", path)
	}
	return &m, nil
}
