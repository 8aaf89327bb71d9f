// Package bp is the cmd/bp entrypoint: it wires a bp.Planner to remote
// DFR/STC JSON-RPC clients, a transaction_builder.Builder to a
// txmgr.SimpleTxManager, and serves both behind bp/httpserver's
// /submit, /simulate, /status surface, driven through
// cmd/utils.SubcommandApplication.
package bp

import (
	"context"
	"fmt"

	"github.com/ethereum-optimism/optimism/op-service/txmgr"
	txmgrMetrics "github.com/ethereum-optimism/optimism/op-service/txmgr/metrics"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/bp"
	"github.com/nativerollup/bridge/bp/httpserver"
	txbuilder "github.com/nativerollup/bridge/bp/transaction_builder"
	"github.com/nativerollup/bridge/internal/proofverifier"
	"github.com/nativerollup/bridge/internal/senderproxy"
	"github.com/nativerollup/bridge/pkg/bridgerpc"
)

// App wires and runs one BP instance.
type App struct {
	cfg *Config

	dfrClient *bridgerpc.DFRClient
	stcClient *bridgerpc.STCClient

	planner *bp.Planner
	server  *httpserver.Server
}

// Name implements cmd/utils.SubcommandApplication.
func (a *App) Name() string { return "bp" }

// InitFromCli dials DFR and STC, builds the Planner and Builder, and
// wires them behind the HTTP surface.
func (a *App) InitFromCli(ctx context.Context, c *cli.Context) error {
	cfg, err := NewConfigFromCliContext(c)
	if err != nil {
		return err
	}
	a.cfg = cfg

	dfrClient, err := bridgerpc.DialDFR(ctx, cfg.DfrRPCUrl)
	if err != nil {
		return fmt.Errorf("bp: dial dfr: %w", err)
	}
	a.dfrClient = dfrClient

	stcClient, err := bridgerpc.DialSTC(ctx, cfg.StcRPCUrl)
	if err != nil {
		return fmt.Errorf("bp: dial stc: %w", err)
	}
	a.stcClient = stcClient

	scheme := proofverifier.Scheme(cfg.VerifierStrategy)
	sign := responseSigner(scheme, cfg.ProposerPrivKey)

	a.planner = bp.NewPlanner(dfrClient, stcClient, bp.NoopL1Simulator{}, scheme, sign, cfg.DiscoveryRoundCap)

	txMgr, err := txmgr.NewSimpleTxManager("bp", log.Root(), new(txmgrMetrics.NoopTxMetrics), txmgr.CLIConfig{
		L1RPCURL:                  cfg.L1RPCUrl,
		NumConfirmations:          txmgr.DefaultBatcherFlagValues.NumConfirmations,
		SafeAbortNonceTooLowCount: txmgr.DefaultBatcherFlagValues.SafeAbortNonceTooLowCount,
		PrivateKey:                fmt.Sprintf("%x", crypto.FromECDSA(cfg.ProposerPrivKey)),
		FeeLimitMultiplier:        txmgr.DefaultBatcherFlagValues.FeeLimitMultiplier,
		FeeLimitThresholdGwei:     txmgr.DefaultBatcherFlagValues.FeeLimitThresholdGwei,
		MinBaseFeeGwei:            txmgr.DefaultBatcherFlagValues.MinBaseFeeGwei,
		MinTipCapGwei:             txmgr.DefaultBatcherFlagValues.MinTipCapGwei,
		ResubmissionTimeout:       txmgr.DefaultBatcherFlagValues.ResubmissionTimeout,
		ReceiptQueryInterval:      txmgr.DefaultBatcherFlagValues.ReceiptQueryInterval,
		NetworkTimeout:            txmgr.DefaultBatcherFlagValues.NetworkTimeout,
		TxSendTimeout:             txmgr.DefaultBatcherFlagValues.TxSendTimeout,
		TxNotInMempoolTimeout:     txmgr.DefaultBatcherFlagValues.TxNotInMempoolTimeout,
	})
	if err != nil {
		return fmt.Errorf("bp: init tx manager: %w", err)
	}

	registry := senderproxy.NewL1Registry(cfg.StcContractAddress, cfg.L1SenderProxyInitCode)
	txBuilder := txbuilder.New(txMgr, registry)

	server, err := httpserver.NewServer(httpserver.NewServerOpts{
		Planner:     a.planner,
		Broadcaster: txBuilder,
		Echo:        echo.New(),
	})
	if err != nil {
		return fmt.Errorf("bp: init http server: %w", err)
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

// Close shuts down the HTTP surface and releases both RPC connections.
func (a *App) Close(ctx context.Context) {
	_ = a.server.Shutdown(ctx)
	a.dfrClient.Close()
	a.stcClient.Close()
}
