package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default export file names inside the raw-data directory.
const (
	DefaultApplicationsFile = "frosh_app_counts.csv"
	DefaultGPAFile          = "frosh_gpa_distribution.csv"
	DefaultEthnicityFile    = "frosh_ethnicity.csv"
	DefaultAdmitsFile       = "frosh_admits.csv"
)

// Sources holds the path of each raw export.
type Sources struct {
	Applications string `yaml:"applications,omitempty"`
	GPA          string `yaml:"gpa,omitempty"`
	Ethnicity    string `yaml:"ethnicity,omitempty"`
	Admits       string `yaml:"admits,omitempty"`
}

// DefaultSources returns the standard export locations under rawDir.
func DefaultSources(rawDir string) Sources {
	return Sources{
		Applications: filepath.Join(rawDir, DefaultApplicationsFile),
		GPA:          filepath.Join(rawDir, DefaultGPAFile),
		Ethnicity:    filepath.Join(rawDir, DefaultEthnicityFile),
		Admits:       filepath.Join(rawDir, DefaultAdmitsFile),
	}
}

// LoadSources reads a YAML sources file and overlays it on DefaultSources(rawDir).
// Relative paths in the file are resolved against the file's directory.
//
//	applications: exports/apps_2024.csv
//	admits: /mnt/share/admits.csv
func LoadSources(path, rawDir string) (Sources, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return Sources{}, fmt.Errorf("read sources file: %w", err)
	}
	var override Sources
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Sources{}, fmt.Errorf("parse sources file %s: %w", path, err)
	}

	base := filepath.Dir(path)
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	out := DefaultSources(rawDir)
	if v := resolve(override.Applications); v != "" {
		out.Applications = v
	}
	if v := resolve(override.GPA); v != "" {
		out.GPA = v
	}
	if v := resolve(override.Ethnicity); v != "" {
		out.Ethnicity = v
	}
	if v := resolve(override.Admits); v != "" {
		out.Admits = v
	}
	return out, nil
}
