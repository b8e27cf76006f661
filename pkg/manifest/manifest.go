package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Unit records one generated namespace unit.
type Unit struct {
	Namespace string `yaml:"namespace" json:"namespace"`
	Package   string `yaml:"package" json:"package"`
	Version   string `yaml:"version" json:"version"`
	File      string `yaml:"file" json:"file"`
}

// Manifest tracks the lifecycle of generated binding units across
// regenerations.
type Manifest struct {
	CurrentVersion  string `yaml:"current_version" json:"current_version"`
	PreviousVersion string `yaml:"previous_version" json:"previous_version"`
	Units           []Unit `yaml:"units" json:"units"`
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

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// SetVersion updates the version pointers when a regeneration lands.
func (m *Manifest) SetVersion(version string) {
	if m.CurrentVersion != "" && m.CurrentVersion != version {
		m.PreviousVersion = m.CurrentVersion
	}
	m.CurrentVersion = version
}

// AddUnit records a generated unit, de-duplicating entries that share
// the same namespace and version.
func (m *Manifest) AddUnit(u Unit) {
	for i := range m.Units {
		if m.Units[i].Namespace == u.Namespace && m.Units[i].Version == u.Version {
			m.Units[i] = u
			return
		}
	}
	m.Units = append(m.Units, u)
}

// UnitFile returns the path recorded for a namespace at a version, if present.
func (m *Manifest) UnitFile(namespace, version string) string {
	for _, u := range m.Units {
		if u.Namespace == namespace && u.Version == version {
			return u.File
		}
	}
	return ""
}
