package command

import (
	"github.com/spf13/cobra"

	"github.com/skolemgraph/skolem/clog"
	"github.com/skolemgraph/skolem/elastic"
	"github.com/skolemgraph/skolem/internal/monitor"
)

// NewLoadCmd creates the command that rebuilds the configured indexes.
func NewLoadCmd() *cobra.Command {
	var keep bool
	var monitorAddr string

	var cmd = &cobra.Command{
		Use:   "load",
		Short: "Run every configured projection and write the documents to Elasticsearch.",
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
			if monitorAddr != "" {
				go func() {
					if err := monitor.Listen(monitorAddr); err != nil {
						clog.Errorf("monitor: %v", err)
					}
				}()
			}
			ctx := cmd.Context()
			cli, err := elastic.Dial(cfg.Elastic)
			if err != nil {
				return err
			}
			w := elastic.NewWriter(cli, cfg.Elastic.Batch)
			indexes, err := sel.indexes(cfg)
			if err != nil {
				return err
			}
			for _, index := range indexes {
				// A type-restricted run adds to the index instead of
				// rebuilding it.
				if !keep && sel.docType == "" {
					if err := elastic.DeleteIndex(ctx, cli, index); err != nil {
						return err
					}
					if cfg.Elastic.Settings != "" {
						if err := elastic.EnsureIndex(ctx, cli, index, cfg.Elastic.Settings); err != nil {
							return err
						}
					}
				}
				types, err := sel.types(cfg.Indexes[index])
				if err != nil {
					return err
				}
				for _, docType := range types {
					if err := project(ctx, cfg, index, docType, w); err != nil {
						return err
					}
				}
				if err := elastic.Refresh(ctx, cli, index); err != nil {
					return err
				}
			}
			return nil
		},
	}

	registerSelectorFlags(cmd)
	cmd.Flags().BoolVarP(&keep, "keep", "", false, "do not drop the target index before loading")
	cmd.Flags().StringVarP(&monitorAddr, "monitor", "", "", "serve health and metrics on this address while loading")

	return cmd
}
