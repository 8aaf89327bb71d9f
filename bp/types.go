// Package bp implements the Builder/Planner: it traces an unsigned
// cross-chain call, discovers every nested L1↔L2 call it would trigger,
// pre-registers a response for each on STC, and only then broadcasts
// the original transaction (spec §4.4).
package bp

import (
	"context"
	"fmt"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/proofverifier"
)

// IncomingCallRequest is one L1→L2 call BP must ensure has a registered
// response before the transaction chain that triggers it is broadcast.
type IncomingCallRequest struct {
	L1Caller  chain.Address
	L2Address chain.Address
	Value     *chain.Value
	Gas       uint64
	CallData  chain.Bytes
}

// L1Simulator speculatively runs an L1 call (an OutgoingCall STC would
// dispatch) and reports any nested incoming calls it would trigger by
// reentering a SenderProxyL1 — the piece of host-chain simulation BP
// needs that neither STC (which only ever commits) nor DFR (L2-only)
// provides.
type L1Simulator interface {
	Simulate(
		ctx context.Context, from, target chain.Address, value *chain.Value, gas uint64, data chain.Bytes,
	) (result chain.Bytes, success bool, nested []IncomingCallRequest, err error)
}

// Discoverer is the subset of DFR's RPC surface BP's discovery loop
// depends on.
type Discoverer interface {
	SimulateL1ToL2Call(
		ctx context.Context, l1Caller, l2Address chain.Address, value *chain.Value, gas uint64, callData chain.Bytes,
	) (*chain.IncomingCallResponse, error)
}

// Registrar is the subset of STC's surface BP needs to pre-register
// discovered responses.
type Registrar interface {
	RegisterIncomingCall(
		ctx context.Context, scheme proofverifier.Scheme,
		l2Address chain.Address, stateHash chain.Hash32, callData chain.Bytes,
		response *chain.IncomingCallResponse, proof chain.Bytes,
	) error
	L2Root() chain.Hash32
}

// ResponseSigner produces the proof RegisterIncomingCall's configured
// ProofVerifier scheme expects, covering the (stateHash, callData,
// response) triple BP just discovered.
type ResponseSigner func(stateHash chain.Hash32, callData chain.Bytes, response *chain.IncomingCallResponse) (chain.Bytes, error)

// ErrSimulatorNotConfigured is returned by NoopL1Simulator for every call.
var ErrSimulatorNotConfigured = fmt.Errorf("bp: no L1Simulator configured")

// NoopL1Simulator is the placeholder L1Simulator cmd/bp wires by
// default. Like senderproxy.NoopExecutor and dfr.NoopExecutor, a real
// implementation needs EVM call tracing against a live L1 execution
// environment to discover the nested incoming calls an outgoing call
// may itself trigger — out of scope here; integrators supply a
// tracing-backed L1Simulator before running against a live chain.
type NoopL1Simulator struct{}

func (NoopL1Simulator) Simulate(
	context.Context, chain.Address, chain.Address, *chain.Value, uint64, chain.Bytes,
) (chain.Bytes, bool, []IncomingCallRequest, error) {
	return nil, false, nil, ErrSimulatorNotConfigured
}
