package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcstanton/satis/catalog"
	"github.com/rcstanton/satis/value"
)

// EvalResult holds the eval command payload.
type EvalResult struct {
	Rule      string `json:"rule"`
	Satisfied bool   `json:"satisfied"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <catalog-dir> <rule> <entity.json>",
		Short: "Evaluate a rule against an entity",
		Long: `Evaluate a catalog rule against a JSON entity.

The entity is a flat or nested JSON object; "-" reads it from stdin.
Floats in the entity are rejected.

Exit code 0 when the rule is satisfied, 1 when it is not.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, args[0], args[1], args[2], cmd)
		},
	}
}

func runEval(opts *RootOptions, dir, ruleName, entityPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, err := catalog.Load(dir)
	if err != nil {
		return commandError(formatter, ErrCodeCatalog, err.Error())
	}
	rule, err := cat.Rule(ruleName)
	if err != nil {
		return commandError(formatter, ErrCodeRule, err.Error())
	}

	entity, err := readEntity(entityPath, cmd.InOrStdin())
	if err != nil {
		return commandError(formatter, ErrCodeEntity, err.Error())
	}

	formatter.VerboseLog("Evaluating %s against %s entity", ruleName, cat.Entity)

	satisfied, err := rule.IsSatisfiedBy(entity)
	if err != nil {
		return commandError(formatter, ErrCodeEntity, err.Error())
	}

	if opts.Format == "json" {
		if err := formatter.Success(EvalResult{Rule: ruleName, Satisfied: satisfied}); err != nil {
			return err
		}
	} else if satisfied {
		fmt.Fprintf(formatter.Writer, "✓ %s satisfied\n", ruleName)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s not satisfied\n", ruleName)
	}

	if !satisfied {
		return NewExitError(ExitFailure, fmt.Sprintf("rule %s not satisfied", ruleName))
	}
	return nil
}

// readEntity reads a JSON entity from a file, or stdin when path is "-".
func readEntity(path string, stdin io.Reader) (value.Object, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading entity: %w", err)
	}

	v, err := value.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parsing entity: %w", err)
	}
	obj, ok := v.(value.Object)
	if !ok {
		return nil, fmt.Errorf("entity must be a JSON object, got %s", value.TypeName(v))
	}
	return obj, nil
}
