// Command tagsphere opens, lays out and previews 3D tag clouds.
package main

import (
	"os"

	"github.com/phanxgames/tagsphere/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
