package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Manifest records the files a module generated on its last run, relative to
// the output root. Files listed here and no longer produced are stale.
type Manifest struct {
	Module    string   `yaml:"module" json:"module"`
	Namespace string   `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Files     []string `yaml:"files" json:"files"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Marshal encodes the manifest as yaml.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := m.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// Stale returns the recorded files missing from files, sorted.
func (m *Manifest) Stale(files []string) []string {
	current := make(map[string]bool, len(files))
	for _, f := range files {
		current[filepath.ToSlash(f)] = true
	}
	var out []string
	for _, f := range m.Files {
		if !current[f] {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// Record replaces the file list, de-duplicated and sorted.
func (m *Manifest) Record(files []string) {
	seen := make(map[string]bool, len(files))
	m.Files = make([]string, 0, len(files))
	for _, f := range files {
		f = filepath.ToSlash(f)
		if seen[f] {
			continue
		}
		seen[f] = true
		m.Files = append(m.Files, f)
	}
	sort.Strings(m.Files)
}
