// Package dfr implements the Deterministic Fullnode/Replayer: it
// subscribes to STC's event stream and replays every event into a local
// l2env.Environment in strict order, reproducing STC's state
// byte-for-byte without ever trusting a value it did not derive itself
// (spec §4.3). It also exposes the simulation surface BP needs before it
// dares register anything on STC (spec §4.4, §6).
package dfr

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/l2env"
	"github.com/nativerollup/bridge/internal/metrics"
	"github.com/nativerollup/bridge/internal/senderproxy"
)

// Driver keeps the local environment caught up with STC's event bus.
type Driver struct {
	cfg     *Config
	backoff backoff.BackOffContext

	env      *l2env.Environment
	bus      *chain.EventBus
	executor L2Executor

	eventCh chan chain.StateEvent
	sub     event.Subscription

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	lastError error
}

// InitFromCli initializes the driver from parsed command-line flags, the
// same entrypoint shape as prover.Prover.InitFromCli.
func (d *Driver) InitFromCli(ctx context.Context, c *cli.Context, bus *chain.EventBus, l2reg *senderproxy.L2Registry, executor L2Executor) error {
	cfg, err := NewConfigFromCliContext(c)
	if err != nil {
		return err
	}
	return InitFromConfig(ctx, d, cfg, bus, l2reg, executor)
}

// InitFromConfig wires the driver's collaborators directly, used by
// tests and by callers that already hold a Config.
func InitFromConfig(
	ctx context.Context,
	d *Driver,
	cfg *Config,
	bus *chain.EventBus,
	l2reg *senderproxy.L2Registry,
	executor L2Executor,
) error {
	log.Debug("Initializing replayer from config")
	d.cfg = cfg
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.backoff = backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.BackOffRetryInterval), cfg.BackOffMaxRetries),
		d.ctx,
	)
	d.env = l2env.New(cfg.GenesisRoot, l2reg)
	d.bus = bus
	d.executor = executor
	d.eventCh = make(chan chain.StateEvent, 256)
	d.sub = bus.Subscribe(d.eventCh)
	return nil
}

// Environment exposes the local replayed state for the RPC surface.
func (d *Driver) Environment() *l2env.Environment { return d.env }

// Start launches the replay loop in the background.
func (d *Driver) Start() error {
	d.wg.Add(1)
	go d.eventLoop()
	return nil
}

// Close stops the replay loop and waits for it to exit.
func (d *Driver) Close(_ context.Context) {
	d.cancel()
	d.sub.Unsubscribe()
	d.wg.Wait()
}

// LastError returns the most recent replay error, if the loop gave up
// after exhausting its retry budget or stopped at once on a chain
// mismatch, which is not retried (spec §4.3 step 4, divergence
// detection: the replayer must stop advancing, never guess).
func (d *Driver) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastError
}

func (d *Driver) eventLoop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case err := <-d.sub.Err():
			if err != nil {
				log.Error("Replayer event subscription error", "error", err)
			}
			return
		case ev := <-d.eventCh:
			if err := d.applyWithRetry(ev); err != nil {
				log.Error("Replayer stopped: could not reconcile event", "error", err)
				d.mu.Lock()
				d.lastError = err
				d.mu.Unlock()
				return
			}
			if _, ok := ev.(chain.L2BlockProcessedEvent); ok {
				metrics.DFRReplayedBlocksTotal.Inc()
			}
		}
	}
}

func (d *Driver) applyWithRetry(ev chain.StateEvent) error {
	operation := func() error {
		err := d.env.Apply(ev)
		if err == l2env.ErrOutOfOrder {
			// Out-of-order delivery on an in-process event.Feed means a
			// transient race with another subscriber's buffering, not a
			// divergence — retry a bounded number of times before giving
			// up (spec §5, "never reordered" is an STC-side guarantee;
			// a local delivery hiccup is DFR's own problem to absorb).
			return err
		}
		var mismatch *l2env.ErrChainMismatch
		if errors.As(err, &mismatch) && d.cfg.IgnoreStateMismatch {
			// Operator override (spec §4.3 step 2, §7): skip the
			// divergent event and keep replaying instead of halting.
			// A developer affordance only — never the default.
			log.Warn("Ignoring state mismatch and continuing replay", "error", mismatch)
			return nil
		}
		return backoff.Permanent(err)
	}
	if err := backoff.Retry(operation, d.backoff); err != nil {
		if perm, ok := err.(*backoff.PermanentError); ok {
			return perm.Err
		}
		return err
	}
	return nil
}

// ErrReplayerDiverged is returned by VerifyStateChain when DFR's local
// root does not match the root STC reports for the same block number.
var ErrReplayerDiverged = fmt.Errorf("dfr: local state diverged from STC")

// VerifyStateChain compares DFR's locally replayed root against the
// authoritative root STC reports, surfacing a divergence report rather
// than silently trusting either side (spec §4.3 step 4).
func (d *Driver) VerifyStateChain(stcRoot chain.Hash32, stcBlockNumber uint64) error {
	if lag := int64(stcBlockNumber) - int64(d.env.BlockNumber()); lag >= 0 {
		metrics.DFRReplayLagBlocks.Set(float64(lag))
	}
	if d.env.StateRoot() != stcRoot || d.env.BlockNumber() != stcBlockNumber {
		return fmt.Errorf(
			"%w: local root=%x block=%d, stc root=%x block=%d",
			ErrReplayerDiverged, d.env.StateRoot(), d.env.BlockNumber(), stcRoot, stcBlockNumber,
		)
	}
	return nil
}
