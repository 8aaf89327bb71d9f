// Package stc is the cmd/stc entrypoint: it wires an internal/stc.STC
// instance to its store, gateway and dual RPC surfaces and drives them
// through cmd/utils.SubcommandApplication's InitFromCli/Start/Name/Close
// lifecycle (dfr.Driver has the same InitFromCli/Start/Close methods as a
// library type, without Name).
package stc

import (
	"context"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/senderproxy"
	"github.com/nativerollup/bridge/internal/stc"
	"github.com/nativerollup/bridge/internal/stc/rpcserver"
	"github.com/nativerollup/bridge/internal/stc/store"
	"github.com/nativerollup/bridge/pkg/rpc"
)

// App wires and runs one STC deployment.
type App struct {
	cfg *Config

	ledger *stc.STC
	db     *gorm.DB
	client *rpc.Client

	rpcServer   *rpcserver.Server
	adminServer *rpcserver.AdminServer
	adminHTTP   *http.Server
}

// Name implements cmd/utils.SubcommandApplication.
func (a *App) Name() string { return "stc" }

// InitFromCli builds every collaborator: the proof verifier registry,
// the SenderProxyL1 registry and gateway, the store, and both RPC
// surfaces, then wires them into a fresh STC instance.
func (a *App) InitFromCli(ctx context.Context, c *cli.Context) error {
	cfg, err := NewConfigFromCliContext(c)
	if err != nil {
		return err
	}
	a.cfg = cfg

	verifiers, err := buildVerifierRegistry(cfg)
	if err != nil {
		return err
	}

	client, err := rpc.NewClient(ctx, rpc.ClientConfig{
		L1Endpoint:  cfg.L1RPCUrl,
		DialTimeout: rpc.DefaultDialTimeout,
		DialRetries: rpc.DefaultDialRetries,
	})
	if err != nil {
		return fmt.Errorf("stc: connect RPC: %w", err)
	}
	a.client = client

	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("stc: open store: %w", err)
	}
	a.db = db

	registry := senderproxy.NewL1Registry(cfg.ContractAddress, cfg.L1SenderProxyInitCode)
	bus := chain.NewEventBus()

	ledger := stc.New(stc.Config{
		GenesisRoot: cfg.GenesisRoot,
		Registry:    registry,
		Verifiers:   verifiers,
		Bus:         bus,
	})
	gateway := senderproxy.NewGateway(registry, senderproxy.NoopExecutor{}, ledger)
	ledger.SetGateway(gateway)
	a.ledger = ledger

	rpcSrv, err := rpcserver.NewServer(cfg.RPCListenAddr, ledger)
	if err != nil {
		return fmt.Errorf("stc: start rpc server: %w", err)
	}
	a.rpcServer = rpcSrv
	a.adminServer = rpcserver.NewAdminServer(ledger, db, cfg.AdminJWTSecret)
	a.adminHTTP = &http.Server{Addr: cfg.AdminListenAddr, Handler: a.adminServer}

	return nil
}

// Start launches both RPC surfaces in the background.
func (a *App) Start() error {
	go func() {
		_ = a.rpcServer.Serve()
	}()
	go func() {
		_ = a.adminHTTP.ListenAndServe()
	}()
	return nil
}

// Close stops both RPC surfaces and releases the database handle.
func (a *App) Close(ctx context.Context) {
	_ = a.rpcServer.Stop()
	_ = a.adminHTTP.Shutdown(ctx)
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	a.client.Close()
}
