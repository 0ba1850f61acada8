package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skolemgraph/skolem/version"
)

// NewVersionCmd creates the command that reports build information.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Version information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "skolem", version.Version)
			fmt.Fprintln(w, "git commit hash:", version.GitHash)
			if version.BuildDate != "" {
				fmt.Fprintln(w, "build date:", version.BuildDate)
			}
		},
	}
}
