// Package loader reads and writes the peer-pods settings file.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/spotlesstofu/podman-peerpods/internal/config"
)

// LoadFromFile loads settings from a YAML file.
// version tags the default OS image when the file does not name one.
func LoadFromFile(path, version string) (*config.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return LoadFromYAML(data, version)
}

// LoadOrDefault behaves like LoadFromFile but returns defaults when the
// file does not exist.
func LoadOrDefault(path, version string) (*config.Settings, error) {
	s, err := LoadFromFile(path, version)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadFromYAML(nil, version)
	}
	return s, err
}

// LoadFromYAML decodes settings from YAML bytes, applies defaults and
// validates them.
func LoadFromYAML(data []byte, version string) (*config.Settings, error) {
	var s config.Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	raw := map[string]map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("settings must be a mapping of sections: %w", err)
	}
	s.Sections = raw

	s.Normalize(version)

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &s, nil
}

// SaveToFile writes the raw sections back to path, creating the parent
// directory if needed.
//
// Only what the file already held (plus edits to Sections) is written.
// Defaults are filled in again by Normalize on the next load, so a new
// build picks up its own default OS image.
func SaveToFile(s *config.Settings, path string) error {
	doc := map[string]map[string]any{}
	for name, sec := range s.Sections {
		doc[name] = sec
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
