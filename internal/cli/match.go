package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcstanton/satis/catalog"
	"github.com/rcstanton/satis/store"
)

// MatchResult holds the match command payload.
type MatchResult struct {
	Rule     string   `json:"rule"`
	Count    int      `json:"count"`
	Products []string `json:"products"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "match <catalog-dir> <rule>",
		Short: "List stored products satisfying a rule",
		Long: `Match a catalog rule against the product store.

The rule is pushed down to SQLite as a parameterized WHERE fragment when
possible, falling back to an in-memory scan otherwise.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(rootOpts, dbPath, args[0], args[1], cmd)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "satis.db", "path to the product database")
	return cmd
}

func runMatch(opts *RootOptions, dbPath, dir, ruleName string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, err := catalog.Load(dir)
	if err != nil {
		return commandError(formatter, ErrCodeCatalog, err.Error())
	}
	rule, err := cat.Rule(ruleName)
	if err != nil {
		return commandError(formatter, ErrCodeRule, err.Error())
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return commandError(formatter, ErrCodeStore, err.Error())
	}
	defer st.Close()

	products, err := st.Matching(cmd.Context(), rule)
	if err != nil {
		return commandError(formatter, ErrCodeStore, err.Error())
	}

	result := MatchResult{Rule: ruleName, Count: len(products), Products: make([]string, 0, len(products))}
	for _, p := range products {
		result.Products = append(result.Products, p.ID)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%d product(s) satisfy %s\n", result.Count, ruleName)
	for _, id := range result.Products {
		fmt.Fprintf(formatter.Writer, "  %s\n", id)
	}
	return nil
}
