package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile parses a single YAML feature file.
func LoadFile(path string) (*Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feature %s: %w", path, err)
	}

	var f Feature
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing feature %s: %w", path, err)
	}
	f.Path = path

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("feature %s: %w", path, err)
	}
	return &f, nil
}

// LoadDir loads every .yaml and .yml feature file in dir, sorted by name.
func LoadDir(dir string) ([]*Feature, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading feature directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	features := make([]*Feature, 0, len(names))
	for _, name := range names {
		f, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}

func (f *Feature) validate() error {
	if f.Name == "" {
		return fmt.Errorf("feature name is required")
	}
	if len(f.Scenarios) == 0 {
		return fmt.Errorf("at least one scenario is required")
	}
	for i, s := range f.Scenarios {
		if s == nil || s.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i+1)
		}
		if len(s.Steps) == 0 {
			return fmt.Errorf("scenario %q: at least one step is required", s.Name)
		}
	}
	return nil
}

// Expand returns the concrete scenarios of s. A plain scenario expands to
// itself; an outline expands to one scenario per example row.
func (s *Scenario) Expand() []*Scenario {
	if len(s.Examples) == 0 {
		return []*Scenario{s}
	}
	out := make([]*Scenario, 0, len(s.Examples))
	for i, row := range s.Examples {
		pairs := make([]string, 0, 2*len(row))
		for k, v := range row {
			pairs = append(pairs, "<"+k+">", v)
		}
		r := strings.NewReplacer(pairs...)
		steps := make([]string, len(s.Steps))
		for j, line := range s.Steps {
			steps[j] = r.Replace(line)
		}
		out = append(out, &Scenario{
			Name:  fmt.Sprintf("%s #%d", s.Name, i+1),
			Tags:  s.Tags,
			Steps: steps,
		})
	}
	return out
}
