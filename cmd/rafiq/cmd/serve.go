package cmd

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sevencode7/rafiq/internal/api"
	"github.com/sevencode7/rafiq/internal/config"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the backend: static files, Google sign-in and the assistant proxy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg, servePort)
	},
}

// serve runs the API server until ctx is cancelled, then shuts it down
// within the configured timeout.
func serve(ctx context.Context, cfg *config.Config, port int) error {
	if port == 0 {
		port = cfg.Server.Port
	}
	if err := cfg.Auth.Validate(); err != nil {
		log.Warn("Google sign-in is not configured", "err", err)
	}
	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; /api/ai will fail")
	}

	srv := api.NewServer(cfg)
	if cfg.FileUsed() != "" {
		if err := cfg.Watch(srv.Reload); err != nil {
			log.Warn("Config hot reload disabled", "err", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down API server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	return g.Wait()
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default server.port)")
	rootCmd.AddCommand(serveCmd)
}
