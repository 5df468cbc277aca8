package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phanxgames/tagsphere/internal/devserver"
	"github.com/phanxgames/tagsphere/source"
)

func newServeCmd() *cobra.Command {
	var (
		data dataFlags
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve fixture tag data and tag pages for local previews",
		Long: `Serve fixture tag data and tag pages for local previews.

Routes:
  GET /api/tagcloud/   label JSON
  GET /                index page carrying .tag-data elements
  GET /tags/{slug}/    tag page with a .content region

Point 'tagsphere run --url http://ADDR/api/tagcloud/ --base-url http://ADDR'
at it to exercise navigation end to end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			data.apply(cfg)
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			logger := loggerFromContext(cmd.Context())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			labels, err := loadLabels(ctx, nil, cfg.Data)
			if err != nil {
				return fmt.Errorf("load labels: %w", err)
			}
			srv := devserver.New(labels, logger)

			if cfg.Data.Watch {
				go func() {
					if err := source.Watch(ctx, cfg.Data.File, logger, srv.SetLabels); err != nil {
						logger.Error("label watcher stopped", "err", err)
					}
				}()
			}
			return srv.Start(ctx, cfg.Serve.Addr)
		},
	}

	cmd.Flags().StringVarP(&data.file, "file", "f", "", "JSON or YAML tag file")
	cmd.Flags().StringVar(&data.html, "html", "", "HTML file carrying .tag-data elements")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
