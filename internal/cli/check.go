package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcstanton/satis/harness"
)

// CheckReport holds the check command payload.
type CheckReport struct {
	Scenario string        `json:"scenario"`
	Passed   bool          `json:"passed"`
	Failures int           `json:"failures"`
	Checks   []CheckDetail `json:"checks"`
}

// CheckDetail is one check outcome.
type CheckDetail struct {
	Rule   string `json:"rule"`
	Entity string `json:"entity"`
	Want   bool   `json:"want"`
	Got    bool   `json:"got"`
	Pass   bool   `json:"pass"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <scenario.yaml>",
		Short: "Run a rule conformance scenario",
		Long: `Run a YAML scenario: load its catalog, evaluate every check, and
report per-check outcomes.

Exit code 0 when all checks pass, 1 when any fail.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}
}

func runCheck(opts *RootOptions, scenarioPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	scenario, err := harness.LoadScenario(scenarioPath)
	if err != nil {
		return commandError(formatter, ErrCodeScenario, err.Error())
	}

	formatter.VerboseLog("Running scenario %s: %d check(s)", scenario.Name, len(scenario.Checks))

	result, err := harness.Run(scenario)
	if err != nil {
		return commandError(formatter, ErrCodeScenario, err.Error())
	}

	report := CheckReport{
		Scenario: result.ScenarioName,
		Passed:   result.Passed(),
		Failures: result.Failures(),
	}
	for _, c := range result.Checks {
		report.Checks = append(report.Checks, CheckDetail{
			Rule:   c.Rule,
			Entity: c.Entity,
			Want:   c.Want,
			Got:    c.Got,
			Pass:   c.Pass,
		})
	}

	if opts.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		for _, c := range report.Checks {
			mark := "✓"
			if !c.Pass {
				mark = "✗"
			}
			fmt.Fprintf(formatter.Writer, "%s %s / %s: got %v, want %v\n",
				mark, c.Rule, c.Entity, c.Got, c.Want)
		}
		if report.Passed {
			fmt.Fprintf(formatter.Writer, "\n%s: all %d check(s) passed\n", report.Scenario, len(report.Checks))
		} else {
			fmt.Fprintf(formatter.Writer, "\n%s: %d of %d check(s) failed\n", report.Scenario, report.Failures, len(report.Checks))
		}
	}

	if !report.Passed {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s: %d check(s) failed", report.Scenario, report.Failures))
	}
	return nil
}
