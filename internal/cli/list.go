package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcstanton/satis/catalog"
)

// RuleInfo describes one catalog rule for listing.
type RuleInfo struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// ListResult holds the list command payload.
type ListResult struct {
	Entity string     `json:"entity"`
	Rules  []RuleInfo `json:"rules"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list <catalog-dir>",
		Short:         "List catalog rules with their expressions",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, args[0], cmd)
		},
	}
}

func runList(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, err := catalog.Load(dir)
	if err != nil {
		return commandError(formatter, ErrCodeCatalog, err.Error())
	}

	result := ListResult{Entity: cat.Entity}
	for _, name := range cat.Names() {
		rule, err := cat.Rule(name)
		if err != nil {
			return commandError(formatter, ErrCodeRule, err.Error())
		}
		result.Rules = append(result.Rules, RuleInfo{
			Name:       name,
			Expression: rule.Expr().String(),
		})
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s (%d rules)\n", result.Entity, len(result.Rules))
	for _, r := range result.Rules {
		fmt.Fprintf(formatter.Writer, "  %-20s %s\n", r.Name, r.Expression)
	}
	return nil
}
