package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/tasksage/internal/config"
	"github.com/josephgoksu/tasksage/internal/server"
	"github.com/josephgoksu/tasksage/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planning HTTP API",
	Long: `Serve the planning engine over HTTP.

Endpoints:
  GET  /health
  POST /group_tasks
  POST /infer_dependencies
  POST /prioritize_tasks
  POST /create_pomodoro_schedule
  POST /schedule_briefing
  POST /find_similar_tasks

When server.apiKey is set, every POST must carry it in the "api-key" header.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadServerConfig()
		if err != nil {
			return err
		}
		engine, err := buildEngine(cmd.Context())
		if err != nil {
			return err
		}

		srv := server.New(engine, server.Config{
			Port:           cfg.Port,
			APIKey:         cfg.APIKey,
			AllowedOrigins: cfg.AllowedOrigins,
			RequestTimeout: cfg.RequestTimeout,
			Version:        version,
		}, server.WithBriefer(buildBriefer(cmd.Context())))

		if cfg.APIKey == "" {
			slog.Warn("server.apiKey is not set, API is unauthenticated")
		}
		telemetryClient.Track(telemetry.EventServerStart, map[string]any{"auth": cfg.APIKey != ""})

		return runServer(cmd.Context(), srv, cmd)
	},
}

// runServer blocks until SIGINT/SIGTERM or a listen error, then shuts down gracefully.
func runServer(ctx context.Context, srv *server.Server, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	srv.Start(&wg, errChan)
	fmt.Fprintf(cmd.ErrOrStderr(), "tasksage API listening on %s\n", srv.Addr())

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	wg.Wait()
	return runErr
}

func init() {
	serveCmd.Flags().Int("port", config.DefaultServerPort, "port to listen on")
	serveCmd.Flags().String("api-key", "", "require this value in the api-key header")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.apiKey", serveCmd.Flags().Lookup("api-key"))

	rootCmd.AddCommand(serveCmd)
}
