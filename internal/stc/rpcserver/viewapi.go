// Package rpcserver exposes STC's read-only surface over two
// transports: go-ethereum's JSON-RPC machinery for the host-chain view
// functions spec §6 names, and a small echo-based HTTP surface for the
// operator-facing admin/debug endpoints SPEC_FULL §D.1/§D.4 add on top.
// Grounded on go-ethereum/node's rpc.API{Namespace, Version, Service}
// registration shape (node/node_auth_test.go registers a dummy
// namespace the same way ViewAPI is registered here) — no teacher file
// in the retrieved pack stands up a custom go-ethereum RPC namespace of
// its own, so the namespace/server wiring below follows go-ethereum's
// own convention directly.
package rpcserver

import (
	"context"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/proofverifier"
)

// Ledger is the subset of STC's surface the "stc" RPC namespace exposes:
// the read-only view functions, plus RegisterIncomingCall itself.
// RegisterIncomingCall needs no separate authentication layer the way
// the admin /unregister route does — the supplied proof is itself the
// authorization, verified the same way whether it arrives over RPC or
// (in a contract deployment) as part of a submitted transaction.
type Ledger interface {
	L2Root() chain.Hash32
	L2BlockNumber() uint64
	IsRegistered(key chain.Hash32) bool
	RegisterIncomingCall(
		ctx context.Context, scheme proofverifier.Scheme,
		l2Address chain.Address, stateHash chain.Hash32, callData chain.Bytes,
		response *chain.IncomingCallResponse, proof chain.Bytes,
	) error
}

// ViewAPI is registered under the "stc" RPC namespace. Every method
// name below is exposed as stc_<methodName> by go-ethereum's RPC
// reflection, following its standard lower-camel-case convention.
type ViewAPI struct {
	ledger Ledger
}

// NewViewAPI wraps ledger for RPC registration.
func NewViewAPI(ledger Ledger) *ViewAPI { return &ViewAPI{ledger: ledger} }

// GetL2Root returns the current committed l2_root.
func (a *ViewAPI) GetL2Root(ctx context.Context) chain.Hash32 {
	return a.ledger.L2Root()
}

// GetL2BlockNumber returns the last committed l2_block_number.
func (a *ViewAPI) GetL2BlockNumber(ctx context.Context) uint64 {
	return a.ledger.L2BlockNumber()
}

// IsRegistered reports whether a response is currently registered
// under key.
func (a *ViewAPI) IsRegistered(ctx context.Context, key chain.Hash32) bool {
	return a.ledger.IsRegistered(key)
}

// RegisterIncomingCall forwards a BP-discovered response into the
// ledger, exposed here as stc_registerIncomingCall so BP can run as a
// separate process from STC.
func (a *ViewAPI) RegisterIncomingCall(
	ctx context.Context, scheme proofverifier.Scheme,
	l2Address chain.Address, stateHash chain.Hash32, callData chain.Bytes,
	response *chain.IncomingCallResponse, proof chain.Bytes,
) error {
	return a.ledger.RegisterIncomingCall(ctx, scheme, l2Address, stateHash, callData, response, proof)
}
