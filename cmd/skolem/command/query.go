package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skolemgraph/skolem/indexer"
)

// NewQueryCmd creates the command that prints the generated SPARQL.
func NewQueryCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "query",
		Short: "Print the SPARQL query generated for each configured document type.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			sel, err := selectionFrom(cmd)
			if err != nil {
				return err
			}
			indexes, err := sel.indexes(cfg)
			if err != nil {
				return err
			}
			for _, index := range indexes {
				types, err := sel.types(cfg.Indexes[index])
				if err != nil {
					return err
				}
				for _, docType := range types {
					ix, err := indexer.New(cfg, index, docType)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "# %s / %s\n%s\n\n", index, docType, ix.Query())
				}
			}
			return nil
		},
	}

	registerSelectorFlags(cmd)

	return cmd
}
