package bridgerpc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/proofverifier"
	"github.com/nativerollup/bridge/internal/stc/rpcserver"
	"github.com/nativerollup/bridge/pkg/bridgerpc"
)

type fakeLedger struct {
	root chain.Hash32
}

func (f *fakeLedger) L2Root() chain.Hash32            { return f.root }
func (f *fakeLedger) L2BlockNumber() uint64           { return 0 }
func (f *fakeLedger) IsRegistered(chain.Hash32) bool  { return false }
func (f *fakeLedger) RegisterIncomingCall(
	context.Context, proofverifier.Scheme, chain.Address, chain.Hash32, chain.Bytes,
	*chain.IncomingCallResponse, chain.Bytes,
) error {
	return nil
}

func TestSTCClient_L2Root_RoundTripsOverRPC(t *testing.T) {
	ledger := &fakeLedger{root: chain.Hash32{0xAB}}
	srv, err := rpcserver.NewServer("127.0.0.1:0", ledger)
	require.NoError(t, err)
	defer srv.Stop()
	go srv.Serve()

	client, err := bridgerpc.DialSTC(context.Background(), "http://"+srv.Addr())
	require.NoError(t, err)
	defer client.Close()

	require.Equal(t, ledger.root, client.L2Root())
}
