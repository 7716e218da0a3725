package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/garima1kafle/path2prep/core"
	"github.com/garima1kafle/path2prep/internal/api"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the path2prep HTTP API",
	Long: `Serve the ranking engines over HTTP. Models are loaded once at startup.

Routes:
  GET  /healthz
  GET  /metrics
  GET  /api/v1/backends
  POST /api/v1/careers/recommend    {"user": "...", "profile": {...}, "top_k": 5}
  POST /api/v1/scholarships/match   {"user": "...", "profile": {...}, "top_k": 5}
  GET  /api/v1/users/{user}/recommendations?engine=career|scholarship

Examples:
  path2prep serve --addr :8080 --profile profiles.json --careers careers.json --scholarships scholarships.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := core.NewService(cfg, cacheManager)
		defer func() { _ = svc.Close() }()
		return api.NewServer(cfg, svc).Serve(ctx)
	},
}
