// Package cli implements the tagsphere command-line interface.
//
// Commands:
//   - run: open a window with the tag cloud
//   - layout: converge a cloud headlessly and print label positions
//   - serve: serve fixture tag data and tag pages for local previews
//
// All commands accept --config (default tagsphere.yml) and --verbose (-v).
// The logger and the loaded configuration travel through context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/tagsphere/internal/config"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version. Values
// are usually injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the tagsphere CLI.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "tagsphere",
		Short:        "tagsphere renders a rotating 3D tag cloud",
		Long:         `tagsphere places weighted tags on an ellipsoid, relaxes them into a readable arrangement, and lets you rotate, zoom and click through to tag pages.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Debug("config loaded", "path", configPath)

			ctx := withLogger(cmd.Context(), logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("tagsphere %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "config file")

	root.AddCommand(newRunCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newServeCmd())

	return root
}
