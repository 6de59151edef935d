package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/richardsabow/airports-backend/di"
	"github.com/spf13/cobra"
)

var reloadInterval time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serve GET /airports until SIGINT or SIGTERM, then shut down gracefully.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&reloadInterval, "reload-interval", 0, "Reseed the redis backend from the fixture at this interval (0 disables)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if container.AirportsLoader != nil && reloadInterval > 0 {
		slog.Info("starting periodic airports reload", "interval", reloadInterval)
		container.AirportsLoader.StartPeriodicJob(ctx, reloadInterval)
	}

	return container.HttpServer.Run(ctx)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
