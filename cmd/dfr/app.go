// Package dfr is the cmd/dfr entrypoint: it wires a dfr.Driver to a
// fresh L2SenderProxy registry and its own "dfr" JSON-RPC surface, and
// drives both through cmd/utils.SubcommandApplication.
package dfr

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	cmdflags "github.com/nativerollup/bridge/cmd/flags"
	"github.com/nativerollup/bridge/dfr"
	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/senderproxy"
	"github.com/nativerollup/bridge/pkg/rpc"
)

// App wires and runs one DFR replayer.
type App struct {
	cfg *Config

	driver *dfr.Driver
	server *dfr.Server
	client *rpc.Client
	bus    *chain.EventBus
}

// Name implements cmd/utils.SubcommandApplication.
func (a *App) Name() string { return "dfr" }

// InitFromCli builds the L2 sender proxy registry, the event bus DFR
// subscribes to, and the driver and RPC server themselves.
//
// This binary subscribes to its own local chain.EventBus rather than
// STC's: in a real deployment, DFR and STC run as separate processes
// connected by whatever transport relays STC's emitted events (spec §1
// names this as outside the bridging engine's own scope), so this App
// only owns the bus its own driver replays from.
func (a *App) InitFromCli(ctx context.Context, c *cli.Context) error {
	cfg, err := NewConfigFromCliContext(c)
	if err != nil {
		return err
	}
	a.cfg = cfg

	client, err := rpc.NewClient(ctx, rpc.ClientConfig{
		L2Endpoint:  c.String(cmdflags.L2RPCUrl.Name),
		DialTimeout: rpc.DefaultDialTimeout,
		DialRetries: rpc.DefaultDialRetries,
	})
	if err != nil {
		return fmt.Errorf("dfr: connect RPC: %w", err)
	}
	a.client = client

	l2reg := senderproxy.NewL2Registry(cfg.L2SenderProxyFactory, cfg.L2SenderProxyInitCode)
	a.bus = chain.NewEventBus()

	a.driver = &dfr.Driver{}
	if err := dfr.InitFromConfig(ctx, a.driver, cfg.Config, a.bus, l2reg, dfr.NoopExecutor{}); err != nil {
		return fmt.Errorf("dfr: init driver: %w", err)
	}

	server, err := dfr.NewServer(cfg.RPCListenAddr, a.driver)
	if err != nil {
		return fmt.Errorf("dfr: start rpc server: %w", err)
	}
	a.server = server

	return nil
}

// Start launches the replay loop and the RPC surface.
func (a *App) Start() error {
	if err := a.driver.Start(); err != nil {
		return err
	}
	go func() {
		_ = a.server.Serve()
	}()
	return nil
}

// Close stops the RPC surface and the replay loop.
func (a *App) Close(ctx context.Context) {
	_ = a.server.Stop()
	a.driver.Close(ctx)
	a.client.Close()
}
