package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcstanton/satis/catalog"
	"github.com/rcstanton/satis/exprsql"
)

// TranslateResult holds the translate command payload.
type TranslateResult struct {
	Rule   string `json:"rule"`
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "translate <catalog-dir> <rule>",
		Short: "Translate a rule to a parameterized SQL WHERE fragment",
		Long: `Compile a catalog rule to a SQL WHERE fragment with ? placeholders.

Rules outside the translatable fragment (nested field access,
column-free comparisons, array literals) fail with exit code 1; they
remain evaluable in memory.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runTranslate(opts *RootOptions, dir, ruleName string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, err := catalog.Load(dir)
	if err != nil {
		return commandError(formatter, ErrCodeCatalog, err.Error())
	}
	rule, err := cat.Rule(ruleName)
	if err != nil {
		return commandError(formatter, ErrCodeRule, err.Error())
	}

	sql, params, err := exprsql.NewCompiler().Compile(rule)
	if err != nil {
		_ = formatter.Error(ErrCodeTranslate, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	if opts.Format == "json" {
		if params == nil {
			params = []any{}
		}
		return formatter.Success(TranslateResult{Rule: ruleName, SQL: sql, Params: params})
	}
	fmt.Fprintln(formatter.Writer, sql)
	for i, p := range params {
		fmt.Fprintf(formatter.Writer, "  ?%d = %v\n", i+1, p)
	}
	return nil
}
