package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/marcozac/go-jsonc"
	"gopkg.in/yaml.v3"
)

// DirSource loads skill definitions from directories of JSON/JSONC/YAML files.
type DirSource struct {
	Dirs     []string
	Patterns []string // globs relative to each dir; default: *.json, *.jsonc, *.yaml, *.yml
}

var defaultPatterns = []string{"*.json", "*.jsonc", "*.yaml", "*.yml"}

// Read parses every matching definition file. A missing directory yields no
// definitions and no error; a malformed file yields a warning and is skipped.
func (s *DirSource) Read(ctx context.Context) ([]*SkillSpec, []LoadWarning, error) {
	patterns := s.Patterns
	if len(patterns) == 0 {
		patterns = defaultPatterns
	}

	var specs []*SkillSpec
	var warnings []LoadWarning

	for _, dir := range s.Dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		var paths []string
		for _, pattern := range patterns {
			matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
			if err != nil {
				return nil, nil, fmt.Errorf("glob %s in %s: %w", pattern, dir, err)
			}
			paths = append(paths, matches...)
		}
		sort.Strings(paths)

		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}

			spec, err := loadSpecFile(path)
			if err != nil {
				warnings = append(warnings, LoadWarning{Source: path, Reason: err.Error()})
				continue
			}
			specs = append(specs, spec)
		}
	}

	return specs, warnings, nil
}

// loadSpecFile reads and parses a single definition file by extension.
func loadSpecFile(path string) (*SkillSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var spec *SkillSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		spec, err = ParseYAMLSpec(data)
	default:
		spec, err = ParseSpec(data)
	}
	if err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// ParseSpec parses a JSON or JSONC skill definition.
func ParseSpec(data []byte) (*SkillSpec, error) {
	var spec SkillSpec
	if err := jsonc.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	return &spec, nil
}

// ParseYAMLSpec parses a YAML skill definition by bridging it through JSON,
// so the schema fields end up as raw JSON documents like their JSON-sourced
// counterparts.
func ParseYAMLSpec(data []byte) (*SkillSpec, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml definition: %w", err)
	}

	bridge, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert yaml definition: %w", err)
	}
	return ParseSpec(bridge)
}
