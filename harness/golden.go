package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/rcstanton/satis/value"
)

// toCanonicalObject converts a Result to the value union for canonical
// serialization. Canonical JSON keeps golden files byte-stable.
func (r *Result) toCanonicalObject() value.Object {
	checks := make(value.Array, len(r.Checks))
	for i, c := range r.Checks {
		checks[i] = value.Object{
			"rule":   value.String(c.Rule),
			"entity": value.String(c.Entity),
			"want":   value.Bool(c.Want),
			"got":    value.Bool(c.Got),
			"pass":   value.Bool(c.Pass),
		}
	}
	return value.Object{
		"scenario_name": value.String(r.ScenarioName),
		"checks":        checks,
	}
}

// RunWithGolden executes a scenario and compares the report against a
// golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./harness -update
//
// Returns an error if the scenario cannot run. A report that differs
// from the golden file fails the test through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-obtained result against the golden
// file for the given scenario name.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	report, err := value.MarshalCanonical(result.toCanonicalObject())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, report)
	return nil
}
