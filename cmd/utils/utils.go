// Package utils holds the urfave/cli glue every cmd/* entrypoint in this
// module shares: the lifecycle an "application" struct (bp.App, dfr.App,
// stc.App, commitreveal.App) must implement, and the subcommand action
// that drives it. This mirrors the InitFromCli/Start/Close/Name shape
// blob-aggregator/api.API exposes and main.go drives via
// cmd/utils.SubcommandAction, though that helper's own source was not
// present in the retrieved pack — its signature is reconstructed here
// from how api.API is actually shaped and called.
package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 30 * time.Second

// SubcommandApplication is what SubcommandAction needs from a long-running
// service: initialize from parsed flags, start serving, report a name
// for logging, and shut down cleanly on signal.
type SubcommandApplication interface {
	InitFromCli(ctx context.Context, c *cli.Context) error
	Start() error
	Name() string
	Close(ctx context.Context)
}

// SubcommandAction adapts a SubcommandApplication into a cli.ActionFunc:
// initialize, start, then block until SIGINT/SIGTERM and close.
func SubcommandAction(app SubcommandApplication) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx, cancel := context.WithCancel(c.Context)
		defer cancel()

		if err := app.InitFromCli(ctx, c); err != nil {
			return err
		}
		if err := app.Start(); err != nil {
			return err
		}
		log.Info("Started application", "name", app.Name())

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("Shutting down application", "name", app.Name())
		closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer closeCancel()
		app.Close(closeCtx)
		return nil
	}
}
