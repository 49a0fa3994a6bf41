// Package harness runs rule conformance scenarios.
//
// A scenario is a YAML file naming a catalog directory, a set of entity
// fixtures, and checks asserting which rules each entity satisfies. Runs
// are deterministic: checks execute in file order and the resulting
// report serializes canonically, so golden files are stable across runs
// and platforms.
package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a rule conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the path to the CUE catalog directory to load.
	// Relative paths resolve against the scenario file location.
	Catalog string `yaml:"catalog"`

	// Entities lists the entity fixtures checks run against.
	Entities []EntityFixture `yaml:"entities"`

	// Checks asserts rule outcomes per entity, evaluated in order.
	Checks []Check `yaml:"checks"`
}

// EntityFixture is one entity under test.
type EntityFixture struct {
	// ID names the entity for checks. Unique within the scenario.
	ID string `yaml:"id"`

	// Fields holds the entity's field values.
	// Floats are rejected when the scenario runs.
	Fields map[string]any `yaml:"fields"`
}

// Check asserts one rule outcome.
type Check struct {
	// Rule is the catalog rule name.
	Rule string `yaml:"rule"`

	// Entity references an EntityFixture by ID.
	Entity string `yaml:"entity"`

	// Want is the expected outcome.
	Want bool `yaml:"want"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the catalog path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "check:" vs "checks:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) && basePath != "" {
		scenario.Catalog = filepath.Join(basePath, scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
		return fmt.Errorf("catalog directory not found: %s", s.Catalog)
	}
	if len(s.Entities) == 0 {
		return fmt.Errorf("entities list is required and must be non-empty")
	}
	if len(s.Checks) == 0 {
		return fmt.Errorf("checks list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Entities))
	for i, e := range s.Entities {
		if e.ID == "" {
			return fmt.Errorf("entities[%d]: id is required", i)
		}
		if seen[e.ID] {
			return fmt.Errorf("entities[%d]: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true
		if len(e.Fields) == 0 {
			return fmt.Errorf("entities[%d]: fields is required", i)
		}
	}

	for i, c := range s.Checks {
		if c.Rule == "" {
			return fmt.Errorf("checks[%d]: rule is required", i)
		}
		if c.Entity == "" {
			return fmt.Errorf("checks[%d]: entity is required", i)
		}
		if !seen[c.Entity] {
			return fmt.Errorf("checks[%d]: unknown entity %q", i, c.Entity)
		}
	}
	return nil
}
