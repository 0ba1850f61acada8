package command

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/skolemgraph/skolem/clog"
	"github.com/skolemgraph/skolem/exporter"
)

// NewExportCmd creates the command that writes documents as JSON-LD.
func NewExportCmd() *cobra.Command {
	var out string

	var cmd = &cobra.Command{
		Use:   "export",
		Short: "Run the projection and write JSON-LD documents. If no file is provided, skolem writes to stdout.",
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
			var w io.Writer
			if out == "" {
				w = cmd.OutOrStdout()
			} else {
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				w = file
				defer file.Close()
			}
			ctx := cmd.Context()
			sink := exporter.NewWriter(w, cfg.Prefixes)
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
					if err := project(ctx, cfg, index, docType, sink); err != nil {
						return err
					}
				}
			}
			clog.Infof("exported %d documents", sink.Count())
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file; if not specified, stdout is used")
	registerSelectorFlags(cmd)

	return cmd
}
