package harness

import (
	"fmt"

	"github.com/rcstanton/satis/catalog"
	"github.com/rcstanton/satis/value"
)

// Result is the report of one scenario run.
type Result struct {
	ScenarioName string
	Checks       []CheckResult
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Rule   string
	Entity string
	Want   bool
	Got    bool
	Pass   bool
}

// Failures returns the number of failed checks.
func (r *Result) Failures() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Pass {
			n++
		}
	}
	return n
}

// Passed reports whether every check passed.
func (r *Result) Passed() bool {
	return r.Failures() == 0
}

// Run executes a scenario: loads the catalog, converts the entity
// fixtures, and evaluates every check in order.
//
// A failed check is reported in the Result, not returned as an error.
// Errors are reserved for scenarios that cannot run at all: a broken
// catalog, a float in a fixture, an unknown rule, a missing field.
func Run(scenario *Scenario) (*Result, error) {
	cat, err := catalog.Load(scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	entities := make(map[string]value.Object, len(scenario.Entities))
	for _, fixture := range scenario.Entities {
		entity, err := value.ObjectFromGo(fixture.Fields)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", fixture.ID, err)
		}
		entities[fixture.ID] = entity
	}

	result := &Result{
		ScenarioName: scenario.Name,
		Checks:       make([]CheckResult, 0, len(scenario.Checks)),
	}
	for i, check := range scenario.Checks {
		rule, err := cat.Rule(check.Rule)
		if err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}
		got, err := rule.IsSatisfiedBy(entities[check.Entity])
		if err != nil {
			return nil, fmt.Errorf("checks[%d]: rule %s against %s: %w",
				i, check.Rule, check.Entity, err)
		}
		result.Checks = append(result.Checks, CheckResult{
			Rule:   check.Rule,
			Entity: check.Entity,
			Want:   check.Want,
			Got:    got,
			Pass:   got == check.Want,
		})
	}
	return result, nil
}
