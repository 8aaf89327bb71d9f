package builder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum-optimism/optimism/op-service/txmgr"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/bp"
	builder "github.com/nativerollup/bridge/bp/transaction_builder"
	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/proofverifier"
	"github.com/nativerollup/bridge/internal/senderproxy"
)

type fakeDiscoverer struct {
	response *chain.IncomingCallResponse
}

func (f *fakeDiscoverer) SimulateL1ToL2Call(
	_ context.Context, _, _ chain.Address, _ *chain.Value, _ uint64, _ chain.Bytes,
) (*chain.IncomingCallResponse, error) {
	return f.response, nil
}

type fakeRegistrar struct{ root chain.Hash32 }

func (f *fakeRegistrar) RegisterIncomingCall(
	context.Context, proofverifier.Scheme, chain.Address, chain.Hash32, chain.Bytes,
	*chain.IncomingCallResponse, chain.Bytes,
) error {
	return nil
}
func (f *fakeRegistrar) L2Root() chain.Hash32 { return f.root }

type fakeL1Simulator struct{}

func (fakeL1Simulator) Simulate(
	context.Context, chain.Address, chain.Address, *chain.Value, uint64, chain.Bytes,
) (chain.Bytes, bool, []bp.IncomingCallRequest, error) {
	return nil, true, nil, nil
}

func noopSigner(chain.Hash32, chain.Bytes, *chain.IncomingCallResponse) (chain.Bytes, error) {
	return chain.Bytes("proof"), nil
}

func buildPlan(t *testing.T, l2Address chain.Address, callData chain.Bytes) *bp.Plan {
	t.Helper()
	planner := bp.NewPlanner(
		&fakeDiscoverer{response: &chain.IncomingCallResponse{FinalStateHash: chain.ZeroHash}},
		&fakeRegistrar{},
		fakeL1Simulator{},
		proofverifier.SchemeAdminSignature,
		noopSigner,
		0,
	)
	plan, err := planner.Discover(context.Background(), bp.IncomingCallRequest{
		L2Address: l2Address, CallData: callData, Value: chain.ValueFromUint64(0), Gas: 21000,
	})
	require.NoError(t, err)
	return plan
}

type fakeTxManager struct {
	receipt *types.Receipt
	err     error
	sent    *txmgr.TxCandidate
}

func (f *fakeTxManager) Send(_ context.Context, candidate txmgr.TxCandidate) (*types.Receipt, error) {
	f.sent = &candidate
	return f.receipt, f.err
}

func TestBroadcast_SendsToTheSenderProxyForTheRootL2Address(t *testing.T) {
	l2Address := chain.Address{0x01}
	registry := senderproxy.NewL1Registry(chain.Address{0xfe}, chain.Bytes("initcode"))
	plan := buildPlan(t, l2Address, chain.Bytes("deposit"))

	txHash := chain.Hash32{0xAA}
	txm := &fakeTxManager{receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: txHash}}

	b := builder.New(txm, registry)
	got, err := b.Broadcast(context.Background(), plan)
	require.NoError(t, err)
	require.Equal(t, txHash.Hex(), got)
	require.NotNil(t, txm.sent)
	require.Equal(t, registry.AddressFor(l2Address), *txm.sent.To)
}

func TestBroadcast_ReturnsErrorOnRevert(t *testing.T) {
	registry := senderproxy.NewL1Registry(chain.Address{0xfe}, chain.Bytes("initcode"))
	plan := buildPlan(t, chain.Address{0x02}, chain.Bytes("deposit"))

	txm := &fakeTxManager{receipt: &types.Receipt{Status: types.ReceiptStatusFailed, TxHash: chain.Hash32{0xBB}}}

	b := builder.New(txm, registry)
	_, err := b.Broadcast(context.Background(), plan)
	require.Error(t, err)
	var reverted *builder.ErrTxReverted
	require.True(t, errors.As(err, &reverted))
}

func TestBroadcast_PropagatesSendError(t *testing.T) {
	registry := senderproxy.NewL1Registry(chain.Address{0xfe}, chain.Bytes("initcode"))
	plan := buildPlan(t, chain.Address{0x03}, chain.Bytes("deposit"))

	txm := &fakeTxManager{err: errors.New("rpc unavailable")}

	b := builder.New(txm, registry)
	_, err := b.Broadcast(context.Background(), plan)
	require.Error(t, err)
}
