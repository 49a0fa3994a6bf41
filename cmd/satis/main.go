package main

import (
	"os"

	"github.com/rcstanton/satis/internal/cli"
)

func main() {
	// Commands report their own errors through the output formatter;
	// only the exit code is decided here.
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
