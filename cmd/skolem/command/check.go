package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skolemgraph/skolem/indexer"
)

// NewCheckCmd creates the command that validates the configuration.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration file and exit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			types := 0
			for index, ic := range cfg.Indexes {
				for docType := range ic {
					if _, err := indexer.New(cfg, index, docType); err != nil {
						return err
					}
					types++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration ok: %d indexes, %d document types\n", len(cfg.Indexes), types)
			return nil
		},
	}
}
