package dfr

import (
	"context"

	"github.com/nativerollup/bridge/internal/chain"
)

// GetStateRoot returns DFR's locally replayed root (spec §6, getStateRoot).
func (d *Driver) GetStateRoot() chain.Hash32 { return d.env.StateRoot() }

// GetL1SenderProxyL2 returns the deterministic SenderProxyL2 address for
// l1Address (spec §6, getL1SenderProxyL2). It resolves through the same
// proxy_cache as EnsureL1SenderProxyL2, so the address is cached as a
// side effect.
func (d *Driver) GetL1SenderProxyL2(l1Address chain.Address) chain.Address {
	return d.env.L2SenderProxyFor(l1Address)
}

// EnsureL1SenderProxyL2 resolves and caches the SenderProxyL2 address for
// l1Address (spec §6, ensureL1SenderProxyL2); today this is the same
// pure derivation as GetL1SenderProxyL2 because the proxy_cache eviction
// policy does not distinguish "deployed" from "computed".
func (d *Driver) EnsureL1SenderProxyL2(l1Address chain.Address) chain.Address {
	return d.env.L2SenderProxyFor(l1Address)
}

// callResult bundles everything a simulate/execute call can surface.
type callResult struct {
	Result   chain.Bytes
	Success  bool
	Outgoing []chain.OutgoingCall
}

func (d *Driver) dispatch(ctx context.Context, l1Address, l2Address chain.Address, value *chain.Value, gas uint64, callData chain.Bytes) (callResult, error) {
	from := d.env.L2SenderProxyFor(l1Address)
	result, success, outgoing, err := d.executor.Call(ctx, from, l2Address, value, gas, callData)
	return callResult{Result: result, Success: success, Outgoing: outgoing}, err
}

// SimulateL1ToL2Call runs an L1→L2 call against a disposable snapshot
// and always reverts, so repeated simulation can never affect DFR's
// committed view (spec §8, "Simulation purity").
func (d *Driver) SimulateL1ToL2Call(
	ctx context.Context, l1Caller, l2Address chain.Address, value *chain.Value, gas uint64, callData chain.Bytes,
) (*chain.IncomingCallResponse, error) {
	snap := d.env.Snapshot()
	defer d.env.Revert(snap)
	return d.runIncomingCall(ctx, l1Caller, l2Address, value, gas, callData)
}

// ExecuteL1ToL2Call runs the same call without taking or reverting a
// snapshot (spec §6, executeL1ToL2Call). It does not advance DFR's state
// root: the response's FinalStateHash is the pre-call root. It never
// touches STC, and BP's planner does not call it.
func (d *Driver) ExecuteL1ToL2Call(
	ctx context.Context, l1Caller, l2Address chain.Address, value *chain.Value, gas uint64, callData chain.Bytes,
) (*chain.IncomingCallResponse, error) {
	return d.runIncomingCall(ctx, l1Caller, l2Address, value, gas, callData)
}

func (d *Driver) runIncomingCall(
	ctx context.Context, l1Caller, l2Address chain.Address, value *chain.Value, gas uint64, callData chain.Bytes,
) (*chain.IncomingCallResponse, error) {
	preRoot := d.env.StateRoot()
	res, err := d.dispatch(ctx, l1Caller, l2Address, value, gas, callData)
	if err != nil {
		return nil, err
	}

	response := &chain.IncomingCallResponse{
		PreOutgoingStateHash: preRoot,
		OutgoingCalls:        res.Outgoing,
		ExpectedResults:      make([]chain.Bytes, len(res.Outgoing)),
		ReturnValue:          res.Result,
		FinalStateHash:       preRoot,
	}
	for i, oc := range res.Outgoing {
		response.ExpectedResults[i] = oc.Data
	}
	return response, nil
}

// ExecuteL2Transaction dispatches an ordinary L2-originated call (spec
// §6, executeL2Transaction), reporting any L2→L1 effects it triggers.
func (d *Driver) ExecuteL2Transaction(
	ctx context.Context, from, target chain.Address, value *chain.Value, gas uint64, data chain.Bytes,
) (chain.Bytes, []chain.OutgoingCall, error) {
	result, success, outgoing, err := d.executor.Call(ctx, from, target, value, gas, data)
	if err != nil {
		return nil, nil, err
	}
	if !success {
		return nil, nil, ErrL2CallReverted
	}
	return result, outgoing, nil
}

// ErrL2CallReverted is returned when the local L2 executor reports a
// reverted call.
var ErrL2CallReverted = errL2CallReverted{}

type errL2CallReverted struct{}

func (errL2CallReverted) Error() string { return "dfr: l2 call reverted" }

// ExecuteL1ToL2CallWithOutgoingCalls is ExecuteL1ToL2Call plus an
// explicit return of the discovered outgoing calls, for callers
// that need them without re-deriving from the response (spec §6).
func (d *Driver) ExecuteL1ToL2CallWithOutgoingCalls(
	ctx context.Context, l1Caller, l2Address chain.Address, value *chain.Value, gas uint64, callData chain.Bytes,
) (*chain.IncomingCallResponse, []chain.OutgoingCall, error) {
	resp, err := d.ExecuteL1ToL2Call(ctx, l1Caller, l2Address, value, gas, callData)
	if err != nil {
		return nil, nil, err
	}
	return resp, resp.OutgoingCalls, nil
}

// ExecuteL2TransactionWithOutgoingCalls is ExecuteL2Transaction without
// discarding the intermediate result (spec §6).
func (d *Driver) ExecuteL2TransactionWithOutgoingCalls(
	ctx context.Context, from, target chain.Address, value *chain.Value, gas uint64, data chain.Bytes,
) (chain.Bytes, []chain.OutgoingCall, error) {
	return d.ExecuteL2Transaction(ctx, from, target, value, gas, data)
}

// DetectL2OutgoingCalls simulates an L2-originated call purely to
// enumerate the L2→L1 effects it would trigger, reverting immediately
// (spec §6, detectL2OutgoingCalls). BP's planner does not call it; it
// discovers outgoing calls through SimulateL1ToL2Call.
func (d *Driver) DetectL2OutgoingCalls(
	ctx context.Context, from, target chain.Address, value *chain.Value, gas uint64, data chain.Bytes,
) ([]chain.OutgoingCall, error) {
	snap := d.env.Snapshot()
	defer d.env.Revert(snap)

	_, success, outgoing, err := d.executor.Call(ctx, from, target, value, gas, data)
	if err != nil {
		return nil, err
	}
	if !success {
		return nil, ErrL2CallReverted
	}
	return outgoing, nil
}

// DetectOutgoingCallsFromL1ToL2Call is DetectL2OutgoingCalls for the
// incoming-call path (spec §6).
func (d *Driver) DetectOutgoingCallsFromL1ToL2Call(
	ctx context.Context, l1Caller, l2Address chain.Address, value *chain.Value, gas uint64, callData chain.Bytes,
) ([]chain.OutgoingCall, error) {
	resp, err := d.SimulateL1ToL2Call(ctx, l1Caller, l2Address, value, gas, callData)
	if err != nil {
		return nil, err
	}
	return resp.OutgoingCalls, nil
}
