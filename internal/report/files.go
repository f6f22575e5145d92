package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/photomap/internal/aggregate"
)

// SaveYAML writes the summary to a YAML file, creating parent directories
func SaveYAML(path string, s *aggregate.Summary) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	return nil
}

// LoadYAML reads a summary written by SaveYAML
func LoadYAML(path string) (*aggregate.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}

	var s aggregate.Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &s, nil
}

// WriteJSON writes the summary as indented JSON
func WriteJSON(w io.Writer, s *aggregate.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// Save writes the summary to path, picking YAML or JSON by extension
func Save(path string, s *aggregate.Summary) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SaveYAML(path, s)
	case ".json":
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create JSON file: %w", err)
		}
		defer f.Close()
		return WriteJSON(f, s)
	default:
		return fmt.Errorf("unsupported report format: %s", path)
	}
}
