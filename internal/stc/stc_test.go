package stc_test

import (
	"context"
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/proofverifier"
	"github.com/nativerollup/bridge/internal/senderproxy"
	"github.com/nativerollup/bridge/internal/stc"
)

// fakeExecutor is a minimal L1Executor stand-in: calls always succeed and
// echo their calldata back as the result, leaving l2_root untouched. It
// exists purely to drive STC's outgoing-call loop in tests without
// standing up a real execution environment.
// fakeExecutor additionally records, for each call, the l2_root STC
// reports at the moment the call is dispatched — used to assert that
// outgoing calls observe an already-advanced root rather than the
// pre-block one.
type fakeExecutor struct {
	calls         []chain.Bytes
	observedRoots []chain.Hash32
	rootReader    func() chain.Hash32
}

func (f *fakeExecutor) Call(_ context.Context, _, _ chain.Address, _ *chain.Value, _ uint64, data chain.Bytes) (chain.Bytes, bool, error) {
	f.calls = append(f.calls, data)
	if f.rootReader != nil {
		f.observedRoots = append(f.observedRoots, f.rootReader())
	}
	return data, true, nil
}

func newTestSTC(t *testing.T, genesis chain.Hash32, adminKey *ecdsa.PrivateKey) (*stc.STC, *senderproxy.L1Registry, *fakeExecutor) {
	t.Helper()

	registry := senderproxy.NewL1Registry(chain.Address{0xAA}, chain.Bytes{0x60, 0x00})
	executor := &fakeExecutor{}
	verifiers := proofverifier.NewRegistry(
		proofverifier.NewAdminSignatureVerifier(crypto.PubkeyToAddress(adminKey.PublicKey)),
	)
	bus := chain.NewEventBus()

	s := stc.New(stc.Config{
		GenesisRoot: genesis,
		Registry:    registry,
		Verifiers:   verifiers,
		Bus:         bus,
	})
	executor.rootReader = s.L2Root
	gw := senderproxy.NewGateway(registry, executor, s)
	s.SetGateway(gw)

	return s, registry, executor
}

func signedTransition(t *testing.T, adminKey *ecdsa.PrivateKey, tr proofverifier.Transition) chain.Bytes {
	t.Helper()
	sig, err := proofverifier.SignTransition(tr, adminKey)
	require.NoError(t, err)
	return sig
}

func TestProcessL2Block_CommitsOnValidProof(t *testing.T) {
	adminKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	genesis := chain.ZeroHash
	s, _, executor := newTestSTC(t, genesis, adminKey)

	finalRoot := chain.Keccak256Hash([]byte("block-1"))
	callData := chain.Bytes("hello")

	tr := proofverifier.Transition{
		PrevRoot:  genesis,
		Input:     callData,
		PostRoot:  genesis,
		FinalRoot: finalRoot,
	}
	proof := signedTransition(t, adminKey, tr)

	err = s.ProcessL2Block(
		context.Background(),
		proofverifier.SchemeAdminSignature,
		genesis, callData, genesis,
		nil, nil,
		finalRoot, proof,
	)
	require.NoError(t, err)
	require.Equal(t, finalRoot, s.L2Root())
	require.EqualValues(t, 1, s.L2BlockNumber())
	require.Empty(t, executor.calls)
}

func TestProcessL2Block_RejectsStalePrevRoot(t *testing.T) {
	adminKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	genesis := chain.ZeroHash
	s, _, _ := newTestSTC(t, genesis, adminKey)

	stale := chain.Keccak256Hash([]byte("not-the-root"))
	finalRoot := chain.Keccak256Hash([]byte("block-1"))
	tr := proofverifier.Transition{PrevRoot: stale, PostRoot: stale, FinalRoot: finalRoot}
	proof := signedTransition(t, adminKey, tr)

	err = s.ProcessL2Block(context.Background(), proofverifier.SchemeAdminSignature, stale, nil, stale, nil, nil, finalRoot, proof)
	require.Error(t, err)
	var target *stc.ErrInvalidPrev
	require.ErrorAs(t, err, &target)
}

func TestProcessL2Block_RejectsInvalidProof(t *testing.T) {
	adminKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	genesis := chain.ZeroHash
	s, _, _ := newTestSTC(t, genesis, adminKey)

	finalRoot := chain.Keccak256Hash([]byte("block-1"))
	tr := proofverifier.Transition{PrevRoot: genesis, PostRoot: genesis, FinalRoot: finalRoot}
	// signed by the wrong key
	proof := signedTransition(t, otherKey, tr)

	err = s.ProcessL2Block(context.Background(), proofverifier.SchemeAdminSignature, genesis, nil, genesis, nil, nil, finalRoot, proof)
	require.Error(t, err)
	var target *stc.ErrProofInvalid
	require.ErrorAs(t, err, &target)
	require.Equal(t, genesis, s.L2Root(), "rejected proof must not advance the root")
}

func TestProcessL2Block_DispatchesOutgoingCallsInOrder(t *testing.T) {
	adminKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	genesis := chain.ZeroHash
	s, registry, executor := newTestSTC(t, genesis, adminKey)

	l2Addr := chain.Address{0x01}
	expected := []chain.Bytes{chain.Bytes("r1"), chain.Bytes("r2")}
	calls := []chain.OutgoingCall{
		{From: l2Addr, Target: chain.Address{0x02}, Value: chain.ValueFromUint64(0), Gas: 21000, Data: expected[0], PostCallStateHash: genesis},
		{From: l2Addr, Target: chain.Address{0x03}, Value: chain.ValueFromUint64(0), Gas: 21000, Data: expected[1], PostCallStateHash: genesis},
	}
	finalRoot := chain.Keccak256Hash([]byte("block-1"))

	tr := proofverifier.Transition{
		PrevRoot: genesis, PostRoot: genesis, FinalRoot: finalRoot,
		OutgoingCalls: calls, ExpectedResults: expected,
	}
	proof := signedTransition(t, adminKey, tr)

	err = s.ProcessL2Block(context.Background(), proofverifier.SchemeAdminSignature, genesis, nil, genesis, calls, expected, finalRoot, proof)
	require.NoError(t, err)
	require.Equal(t, finalRoot, s.L2Root())
	require.Len(t, executor.calls, 2)
	require.Equal(t, expected[0], executor.calls[0])
	require.Equal(t, expected[1], executor.calls[1])
	require.True(t, registry.IsDeployed(l2Addr))
}

func TestRegisterAndHandleIncomingCall(t *testing.T) {
	adminKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	genesis := chain.ZeroHash
	s, registry, _ := newTestSTC(t, genesis, adminKey)

	l2Addr := chain.Address{0x09}
	callData := chain.Bytes("deposit")
	response := &chain.IncomingCallResponse{
		PreOutgoingStateHash: genesis,
		FinalStateHash:       genesis,
		ReturnValue:          chain.Bytes("ok"),
	}

	tr := proofverifier.Transition{PrevRoot: genesis, Input: callData, PostRoot: genesis, FinalRoot: genesis}
	proof := signedTransition(t, adminKey, tr)

	err = s.RegisterIncomingCall(context.Background(), proofverifier.SchemeAdminSignature, l2Addr, genesis, callData, response, proof)
	require.NoError(t, err)

	key := chain.ResponseKey(l2Addr, genesis, callData)
	require.True(t, s.IsRegistered(key))

	// A second registration for the same key is rejected.
	err = s.RegisterIncomingCall(context.Background(), proofverifier.SchemeAdminSignature, l2Addr, genesis, callData, response, proof)
	require.Error(t, err)
	var alreadyErr *stc.ErrAlreadyRegistered
	require.ErrorAs(t, err, &alreadyErr)

	proxy := registry.AddressFor(l2Addr)
	result, err := s.HandleIncomingCall(context.Background(), proxy, l2Addr, chain.Address{0x42}, chain.ValueFromUint64(0), callData)
	require.NoError(t, err)
	require.Equal(t, response.ReturnValue, result)

	// The response is consumed: a second call against the same
	// (l2_address, root, call_data) key is not registered anymore.
	_, err = s.HandleIncomingCall(context.Background(), proxy, l2Addr, chain.Address{0x42}, chain.ValueFromUint64(0), callData)
	require.Error(t, err)
	var notRegErr *stc.ErrNotRegistered
	require.ErrorAs(t, err, &notRegErr)
}

func TestUnregister_DropsAPendingResponse(t *testing.T) {
	adminKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	genesis := chain.ZeroHash
	s, _, _ := newTestSTC(t, genesis, adminKey)

	l2Addr := chain.Address{0x0a}
	callData := chain.Bytes("withdraw")
	response := &chain.IncomingCallResponse{PreOutgoingStateHash: genesis, FinalStateHash: genesis}

	tr := proofverifier.Transition{PrevRoot: genesis, Input: callData, PostRoot: genesis, FinalRoot: genesis}
	proof := signedTransition(t, adminKey, tr)
	require.NoError(t, s.RegisterIncomingCall(context.Background(), proofverifier.SchemeAdminSignature, l2Addr, genesis, callData, response, proof))

	key := chain.ResponseKey(l2Addr, genesis, callData)
	require.True(t, s.IsRegistered(key))

	require.True(t, s.Unregister(key))
	require.False(t, s.IsRegistered(key))
	require.False(t, s.Unregister(key), "unregistering a dropped key again reports false")
}

func TestProcessL2Block_AdvancesRootBeforeOutgoingCalls(t *testing.T) {
	adminKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	genesis := chain.ZeroHash
	s, _, executor := newTestSTC(t, genesis, adminKey)

	postExecutionRoot := chain.Keccak256Hash([]byte("post-execution"))
	finalRoot := chain.Keccak256Hash([]byte("final"))
	l2Addr := chain.Address{0x05}
	callData := chain.Bytes("call")

	calls := []chain.OutgoingCall{
		{From: l2Addr, Target: chain.Address{0x06}, Value: chain.ValueFromUint64(0), Gas: 21000, Data: callData, PostCallStateHash: postExecutionRoot},
	}
	expected := []chain.Bytes{callData}

	tr := proofverifier.Transition{
		PrevRoot: genesis, PostRoot: postExecutionRoot, FinalRoot: finalRoot,
		OutgoingCalls: calls, ExpectedResults: expected,
	}
	proof := signedTransition(t, adminKey, tr)

	err = s.ProcessL2Block(context.Background(), proofverifier.SchemeAdminSignature, genesis, nil, postExecutionRoot, calls, expected, finalRoot, proof)
	require.NoError(t, err)
	require.Len(t, executor.observedRoots, 1)
	require.Equal(t, postExecutionRoot, executor.observedRoots[0],
		"the outgoing call must observe the advanced post-execution root, not the pre-block root")
	require.Equal(t, finalRoot, s.L2Root())
}

// TestHandleIncomingCall_ReachableAtAdvancedRoot mirrors spec §8 scenario
// 3 (read-write-read): a response registered at the root reached after a
// prior HandleIncomingCall (S1) must actually be reachable by its
// ResponseKey, which requires s.l2Root to have moved to S1 rather than
// staying at genesis.
func TestHandleIncomingCall_ReachableAtAdvancedRoot(t *testing.T) {
	adminKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	genesis := chain.ZeroHash
	s, registry, _ := newTestSTC(t, genesis, adminKey)

	l2Addr := chain.Address{0x0b}
	proxy := registry.AddressFor(l2Addr)

	s1 := chain.Keccak256Hash([]byte("s1"))
	s2 := chain.Keccak256Hash([]byte("s2"))

	// First call (b): registered at genesis, advances l2_root to S1.
	callB := chain.Bytes("call-b")
	responseB := &chain.IncomingCallResponse{
		PreOutgoingStateHash: genesis,
		FinalStateHash:       s1,
		ReturnValue:          chain.Bytes("0x"),
	}
	trB := proofverifier.Transition{PrevRoot: genesis, Input: callB, PostRoot: genesis, FinalRoot: s1}
	proofB := signedTransition(t, adminKey, trB)
	require.NoError(t, s.RegisterIncomingCall(context.Background(), proofverifier.SchemeAdminSignature, l2Addr, genesis, callB, responseB, proofB))

	_, err = s.HandleIncomingCall(context.Background(), proxy, l2Addr, chain.Address{0x42}, chain.ValueFromUint64(0), callB)
	require.NoError(t, err)
	require.Equal(t, s1, s.L2Root(), "l2_root must advance to the response's final_state_hash")

	// Second call (c): registered ahead of time at S1 — only reachable
	// if s.l2Root actually moved to S1 after call b.
	callC := chain.Bytes("call-c")
	responseC := &chain.IncomingCallResponse{
		PreOutgoingStateHash: s1,
		FinalStateHash:       s2,
		ReturnValue:          chain.Bytes("66"),
	}
	trC := proofverifier.Transition{PrevRoot: s1, Input: callC, PostRoot: s1, FinalRoot: s2}
	proofC := signedTransition(t, adminKey, trC)
	require.NoError(t, s.RegisterIncomingCall(context.Background(), proofverifier.SchemeAdminSignature, l2Addr, s1, callC, responseC, proofC))

	result, err := s.HandleIncomingCall(context.Background(), proxy, l2Addr, chain.Address{0x42}, chain.ValueFromUint64(0), callC)
	require.NoError(t, err)
	require.Equal(t, responseC.ReturnValue, result)
	require.Equal(t, s2, s.L2Root())
}

func TestHandleIncomingCall_RejectsNonProxyCaller(t *testing.T) {
	adminKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	genesis := chain.ZeroHash
	s, _, _ := newTestSTC(t, genesis, adminKey)

	l2Addr := chain.Address{0x07}
	impostor := chain.Address{0xDE, 0xAD}

	_, err = s.HandleIncomingCall(context.Background(), impostor, l2Addr, chain.Address{0x01}, chain.ValueFromUint64(0), nil)
	require.Error(t, err)
	var onlyProxyErr *stc.ErrOnlyProxy
	require.ErrorAs(t, err, &onlyProxyErr)
}

