package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	v2 "github.com/poolescrow/poold/api/v2"
	"github.com/poolescrow/poold/api/v2/service"
	"github.com/poolescrow/poold/coreV2/statistics"
	"github.com/poolescrow/poold/log"
	"github.com/poolescrow/poold/version"
)

var APICommand = &cobra.Command{
	Use:   "api",
	Short: "Serve the read API over the committed state",
	RunE:  runAPI,
}

func runAPI(cmd *cobra.Command, _ []string) error {
	app, err := openInitializedLedger()
	if err != nil {
		return err
	}
	defer app.Close()

	app.SetStatisticData(statistics.New())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.With("module", "api")
	srv := service.NewService(app, cfg, logger, version.Version)

	logger.Info("Starting API server", "addr", cfg.APIListenAddress, "height", app.Height())

	return v2.Run(ctx, srv, cfg.APIListenAddress)
}
