package command

import (
	"github.com/spf13/cobra"

	"github.com/skolemgraph/skolem/internal/repl"
)

// NewReplCmd creates the command that opens an interactive console.
func NewReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Open an interactive SPARQL console against the configured endpoint.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			return repl.Repl(cmd.Context(), cfg)
		},
	}
}
