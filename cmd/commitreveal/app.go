package commitreveal

import (
	"context"
	"fmt"

	echo "github.com/labstack/echo/v4"
	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/commitreveal"
	"github.com/nativerollup/bridge/commitreveal/httpserver"
	"github.com/nativerollup/bridge/pkg/bridgerpc"
	"github.com/nativerollup/bridge/pkg/rpc"
)

// App wires and runs one Commit-Reveal Wrapper instance.
type App struct {
	cfg *Config

	stcClient *bridgerpc.STCClient
	client    *rpc.Client
	blocks    *commitreveal.L1BlockSource
	server    *httpserver.Server
}

// Name implements cmd/utils.SubcommandApplication.
func (a *App) Name() string { return "commitreveal" }

// InitFromCli dials L1 and the remote STC instance, starts the block
// poller, and wires the Wrapper behind its HTTP surface.
func (a *App) InitFromCli(ctx context.Context, c *cli.Context) error {
	cfg, err := NewConfigFromCliContext(c)
	if err != nil {
		return err
	}
	a.cfg = cfg

	client, err := rpc.NewClient(ctx, rpc.ClientConfig{
		L1Endpoint:  cfg.L1RPCUrl,
		DialTimeout: rpc.DefaultDialTimeout,
		DialRetries: rpc.DefaultDialRetries,
	})
	if err != nil {
		return fmt.Errorf("commitreveal: connect L1: %w", err)
	}
	a.client = client

	stcClient, err := bridgerpc.DialSTC(ctx, cfg.StcRPCUrl)
	if err != nil {
		return fmt.Errorf("commitreveal: dial stc: %w", err)
	}
	a.stcClient = stcClient

	a.blocks = commitreveal.NewL1BlockSource(ctx, client.L1, cfg.PollInterval)
	wrapper := commitreveal.NewWrapper(stcClient, a.blocks, cfg.MinAge, cfg.MaxAge)

	server, err := httpserver.NewServer(httpserver.NewServerOpts{Wrapper: wrapper, Echo: echo.New()})
	if err != nil {
		return fmt.Errorf("commitreveal: init http server: %w", err)
	}
	a.server = server

	return nil
}

// Start launches the HTTP surface.
func (a *App) Start() error {
	go func() {
		_ = a.server.Start(a.cfg.ListenAddr)
	}()
	return nil
}

// Close shuts down the HTTP surface and releases the STC and L1 connections.
func (a *App) Close(ctx context.Context) {
	_ = a.server.Shutdown(ctx)
	a.stcClient.Close()
	a.client.Close()
}
