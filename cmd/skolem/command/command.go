package command

import (
	"context"
	"errors"
	goflag "flag"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/skolemgraph/skolem/config"
	"github.com/skolemgraph/skolem/indexer"
	"github.com/skolemgraph/skolem/sparql"
)

const (
	flagConfig = "config"
	flagIndex  = "index"
	flagType   = "type"
)

// Fallback locations for the configuration file, tried in order after
// the --config flag.
const (
	configEnv  = "SKOLEM_CFG"
	configPath = "/etc/skolem.yaml"
)

// NewRootCmd assembles the skolem command tree.
func NewRootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "skolem",
		Short: "Skolem projects SPARQL query results into Elasticsearch documents.",
	}
	cmd.PersistentFlags().String(flagConfig, "", "path to the configuration file")
	cmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
	cmd.AddCommand(
		NewLoadCmd(),
		NewExportCmd(),
		NewQueryCmd(),
		NewCheckCmd(),
		NewReplCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// configFrom locates and loads the configuration: an explicit --config
// path must exist, otherwise $SKOLEM_CFG is honored, otherwise
// /etc/skolem.yaml. The returned configuration has been checked.
func configFrom(cmd *cobra.Command) (*config.Config, error) {
	file, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	if file != "" {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			return nil, fmt.Errorf("cannot find specified configuration file %q", file)
		}
	} else if f := os.Getenv(configEnv); f != "" {
		file = f
	} else if _, err := os.Stat(configPath); err == nil {
		file = configPath
	}
	if file == "" {
		return nil, fmt.Errorf("no configuration file: pass --config, set $%s or create %s", configEnv, configPath)
	}
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("%s: %v", file, err)
	}
	return cfg, nil
}

// selection narrows a run to one index or one document type.
type selection struct {
	index   string
	docType string
}

func registerSelectorFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagIndex, "", "restrict the run to this index")
	cmd.Flags().String(flagType, "", "restrict the run to this document type (requires --index)")
}

func selectionFrom(cmd *cobra.Command) (selection, error) {
	index, err := cmd.Flags().GetString(flagIndex)
	if err != nil {
		return selection{}, err
	}
	docType, err := cmd.Flags().GetString(flagType)
	if err != nil {
		return selection{}, err
	}
	if docType != "" && index == "" {
		return selection{}, errors.New("--type requires --index")
	}
	return selection{index: index, docType: docType}, nil
}

// indexes returns the selected index names in stable order.
func (s selection) indexes(cfg *config.Config) ([]string, error) {
	names := make([]string, 0, len(cfg.Indexes))
	for name := range cfg.Indexes {
		if s.index != "" && name != s.index {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no index named %q is configured", s.index)
	}
	sort.Strings(names)
	return names, nil
}

// types returns the selected document types of one index in stable order.
func (s selection) types(index config.IndexConfig) ([]string, error) {
	names := make([]string, 0, len(index))
	for name := range index {
		if s.docType != "" && name != s.docType {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no document type named %q is configured", s.docType)
	}
	sort.Strings(names)
	return names, nil
}

// project runs one document type against the endpoint and feeds every
// row into sink.
func project(ctx context.Context, cfg *config.Config, index, docType string, sink indexer.Sink) error {
	ix, err := indexer.New(cfg, index, docType)
	if err != nil {
		return err
	}
	cli := sparql.NewClient(cfg.SPARQL.URI, cfg.SPARQL.Timeout)
	rows, err := cli.Select(ctx, ix.Query())
	if err != nil {
		return err
	}
	defer rows.Close()
	return ix.Run(ctx, rows, sink)
}
