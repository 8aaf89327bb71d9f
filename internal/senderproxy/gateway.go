package senderproxy

import (
	"context"
	"fmt"
	"sync"

	"github.com/nativerollup/bridge/internal/chain"
)

// L1Executor is the pluggable "arbitrary EVM-equivalent" host chain
// execution environment spec §1 names as an external collaborator. STC
// and the proxies dispatch calls through this interface rather than
// owning an EVM implementation themselves.
type L1Executor interface {
	// Call performs a low-level call as the given proxy address,
	// forwarding value and capping gas, and returns the raw result and
	// whether the call succeeded (did not revert).
	Call(ctx context.Context, from, target chain.Address, value *chain.Value, gas uint64, data chain.Bytes) (result chain.Bytes, success bool, err error)
}

// ErrExecutorNotConfigured is returned by NoopExecutor for every call.
var ErrExecutorNotConfigured = fmt.Errorf("senderproxy: no L1Executor configured")

// NoopExecutor is the placeholder L1Executor cmd/stc wires by default.
// A production executor needs to dispatch an arbitrary outgoing call
// against a real L1 execution environment; building one is outside this
// module's scope (see dfr.NoopExecutor for the matching L2-side note).
// Integrators supply a real L1Executor before running against a live
// chain.
type NoopExecutor struct{}

func (NoopExecutor) Call(
	context.Context, chain.Address, chain.Address, *chain.Value, uint64, chain.Bytes,
) (chain.Bytes, bool, error) {
	return nil, false, ErrExecutorNotConfigured
}

// IncomingCallHandler is implemented by STC: the proxy's fallback routes
// here for every L1→L2 call, exactly as spec §4.2 describes. proxy is
// the address STC sees as msg.sender — the deterministic SenderProxyL1
// for l2Address — so STC can reject any caller that is not the proxy it
// itself deployed (spec §7 "OnlyProxy").
type IncomingCallHandler interface {
	HandleIncomingCall(ctx context.Context, proxy, l2Address, l1Caller chain.Address, value *chain.Value, callData chain.Bytes) (chain.Bytes, error)
}

// Gateway implements both SenderProxyL1 modes (spec §4.2): outgoing
// calls dispatched by STC (Execute) and incoming calls arriving from any
// L1 caller (Fallback), plus the pre-deployment refund mechanism.
type Gateway struct {
	registry *L1Registry
	executor L1Executor
	handler  IncomingCallHandler

	mu                sync.Mutex
	preDeployBalances map[chain.Address]*chain.Value // l2_address -> wei sent before deployment
	refunded          map[chain.Address]*chain.Value // l2_address -> wei already refunded
}

// NewGateway wires a Gateway to its registry, execution environment and
// STC's incoming-call handler.
func NewGateway(registry *L1Registry, executor L1Executor, handler IncomingCallHandler) *Gateway {
	return &Gateway{
		registry:          registry,
		executor:          executor,
		handler:           handler,
		preDeployBalances: make(map[chain.Address]*chain.Value),
		refunded:          make(map[chain.Address]*chain.Value),
	}
}

// Execute implements outgoing mode: STC is the only caller (spec §3
// "Ownership": "only STC may call execute"). from identifies the L2
// caller whose proxy performs the call.
func (g *Gateway) Execute(
	ctx context.Context, from, target chain.Address, value *chain.Value, gas uint64, data chain.Bytes,
) (result chain.Bytes, success bool, err error) {
	proxy, deployedNow := g.registry.EnsureDeployed(from)
	if deployedNow {
		g.adoptPreDeploymentFunds(from, value)
	}
	return g.executor.Call(ctx, proxy, target, value, gas, data)
}

// ReceivePreDeploymentFunds records value sent to the predicted-but-not-
// yet-deployed proxy address for l2Address, so it can later be refunded
// in full (spec §8 "Pre-deployment funds").
func (g *Gateway) ReceivePreDeploymentFunds(l2Address chain.Address, value *chain.Value) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur := g.preDeployBalances[l2Address]
	if cur == nil {
		cur = new(chain.Value)
	}
	g.preDeployBalances[l2Address] = new(chain.Value).Add(cur, value)
}

func (g *Gateway) adoptPreDeploymentFunds(l2Address chain.Address, _ *chain.Value) {
	// Deployment itself does not change the recorded pre-deployment
	// balance; it only makes RefundPreDeploymentFunds callable. Funds
	// sent as part of *this* outgoing call's own value are accounted by
	// the executor, not here.
	_ = l2Address
}

// Fallback implements incoming mode: any L1 caller may invoke the proxy;
// it forwards into STC.HandleIncomingCall and returns the result
// verbatim (spec §4.2).
func (g *Gateway) Fallback(
	ctx context.Context, l2Address, l1Caller chain.Address, value *chain.Value, callData chain.Bytes,
) (chain.Bytes, error) {
	if !g.registry.IsDeployed(l2Address) {
		g.ReceivePreDeploymentFunds(l2Address, value)
	}
	proxy := g.registry.AddressFor(l2Address)
	return g.handler.HandleIncomingCall(ctx, proxy, l2Address, l1Caller, value, callData)
}

// ErrNoFundsToRefund is returned when a second refund is attempted for
// the same l2Address after its pre-deployment balance is exhausted
// (spec §8 boundary behavior).
var ErrNoFundsToRefund = fmt.Errorf("senderproxy: no funds to refund")

// RefundPreDeploymentFunds sends the caller's refundable balance for
// l2Address to `to`, saturating at the recorded pre-deployment balance
// so a second call cannot double-refund (spec §4.2, §8).
func (g *Gateway) RefundPreDeploymentFunds(l2Address, to chain.Address) (*chain.Value, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	balance := g.preDeployBalances[l2Address]
	already := g.refunded[l2Address]
	if already == nil {
		already = new(chain.Value)
	}

	if balance == nil || balance.Cmp(already) <= 0 {
		return nil, ErrNoFundsToRefund
	}

	amount := new(chain.Value).Sub(balance, already)
	g.refunded[l2Address] = new(chain.Value).Add(already, amount)

	_ = to // the transfer of `amount` to `to` is performed by the L1Executor in a real deployment
	return amount, nil
}
