package dfr

import (
	"context"
	"fmt"

	"github.com/nativerollup/bridge/internal/chain"
)

// L2Executor is the pluggable L2 execution environment DFR dispatches
// calls through, the L2-side analogue of senderproxy.L1Executor (spec §1
// treats "an arbitrary EVM-equivalent execution environment" as an
// external collaborator on both chains). A call may itself trigger
// nested L2→L1 effects; the executor reports every one it observed so
// DFR's detect* operations can surface them to BP without re-tracing.
type L2Executor interface {
	Call(
		ctx context.Context, from, target chain.Address, value *chain.Value, gas uint64, data chain.Bytes,
	) (result chain.Bytes, success bool, outgoing []chain.OutgoingCall, err error)
}

// ErrExecutorNotConfigured is returned by NoopExecutor for every call.
var ErrExecutorNotConfigured = fmt.Errorf("dfr: no L2Executor configured")

// NoopExecutor is the placeholder L2Executor cmd/dfr wires by default.
// Detecting the nested L2→L1 calls an arbitrary incoming call may
// trigger requires EVM call tracing (e.g. debug_traceCall) against a
// real execution environment; building and operating one is outside
// this module's scope, which treats the execution environment as a
// pluggable external collaborator. Integrators replace this with a
// tracing-backed L2Executor before running against a live chain.
type NoopExecutor struct{}

func (NoopExecutor) Call(
	context.Context, chain.Address, chain.Address, *chain.Value, uint64, chain.Bytes,
) (chain.Bytes, bool, []chain.OutgoingCall, error) {
	return nil, false, nil, ErrExecutorNotConfigured
}
