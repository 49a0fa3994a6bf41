package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcstanton/satis/catalog"
)

// ValidationResult holds catalog validation results.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Entity string   `json:"entity,omitempty"`
	Rules  []string `json:"rules,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate a rule catalog",
		Long: `Compile a CUE rule catalog and report whether every rule is well-formed.

Checks leaf shapes, operator membership, rule references, and reference
cycles. Nothing is evaluated.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, err := catalog.Load(dir)
	if err != nil {
		var catErr *catalog.CatalogError
		if errors.As(err, &catErr) {
			// A broken rule is a validation failure, not a command error.
			if opts.Format == "json" {
				_ = formatter.Success(ValidationResult{Valid: false, Error: catErr.Error()})
			} else {
				fmt.Fprintf(formatter.Writer, "✗ Catalog invalid\n\n  %s\n", catErr)
			}
			return NewExitError(ExitFailure, catErr.Error())
		}
		return commandError(formatter, ErrCodeCatalog, err.Error())
	}

	formatter.VerboseLog("Compiled %d rule(s) for entity %s", cat.Len(), cat.Entity)

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:  true,
			Entity: cat.Entity,
			Rules:  cat.Names(),
		})
	}
	fmt.Fprintf(formatter.Writer, "✓ Catalog valid: %d rule(s) for entity %s\n", cat.Len(), cat.Entity)
	return nil
}
