package main

import (
	goflag "flag"
	"os"

	"github.com/skolemgraph/skolem/cmd/skolem/command"

	// Route clog through glog.
	_ "github.com/skolemgraph/skolem/clog/glog"
)

func main() {
	// glog expects the standard flag set to have been parsed.
	goflag.CommandLine.Parse([]string{})
	cmd := command.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
