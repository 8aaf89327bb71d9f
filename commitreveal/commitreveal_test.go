package commitreveal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/commitreveal"
	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/proofverifier"
)

type fakeRegistrar struct {
	calls int
	err   error
}

func (f *fakeRegistrar) RegisterIncomingCall(
	ctx context.Context, scheme proofverifier.Scheme,
	l2Address chain.Address, stateHash chain.Hash32, callData chain.Bytes,
	response *chain.IncomingCallResponse, proof chain.Bytes,
) error {
	f.calls++
	return f.err
}

type fakeClock struct{ block uint64 }

func (c *fakeClock) CurrentBlock() uint64 { return c.block }

func testPreimage() commitreveal.Preimage {
	return commitreveal.Preimage{
		L2Address: chain.Address{0x01},
		StateHash: chain.Hash32{0x02},
		CallData:  []byte{0xaa, 0xbb},
		Response: &chain.IncomingCallResponse{
			FinalStateHash: chain.Hash32{0x03},
		},
		Proof:  []byte{0xcc},
		Secret: chain.Hash32{0x04},
		Scheme: proofverifier.SchemeAdminSignature,
	}
}

func TestRevealAndRegister_SucceedsWithinWindow(t *testing.T) {
	registrar := &fakeRegistrar{}
	clock := &fakeClock{block: 10}
	w := commitreveal.NewWrapper(registrar, clock, 1, 256)

	committer := chain.Address{0x05}
	p := testPreimage()
	w.Commit(committer, commitreveal.CommitmentHash(p))

	clock.block = 12
	require.NoError(t, w.RevealAndRegister(context.Background(), committer, p))
	require.Equal(t, 1, registrar.calls)
}

func TestRevealAndRegister_RejectsTooEarly(t *testing.T) {
	registrar := &fakeRegistrar{}
	clock := &fakeClock{block: 10}
	w := commitreveal.NewWrapper(registrar, clock, 5, 256)

	committer := chain.Address{0x05}
	p := testPreimage()
	w.Commit(committer, commitreveal.CommitmentHash(p))

	clock.block = 11
	err := w.RevealAndRegister(context.Background(), committer, p)
	require.Error(t, err)
	var tooNew *commitreveal.ErrCommitmentTooNew
	require.ErrorAs(t, err, &tooNew)
	require.Equal(t, 0, registrar.calls)
}

func TestRevealAndRegister_RejectsExpired(t *testing.T) {
	registrar := &fakeRegistrar{}
	clock := &fakeClock{block: 10}
	w := commitreveal.NewWrapper(registrar, clock, 1, 20)

	committer := chain.Address{0x05}
	p := testPreimage()
	w.Commit(committer, commitreveal.CommitmentHash(p))

	clock.block = 31
	err := w.RevealAndRegister(context.Background(), committer, p)
	require.Error(t, err)
	var expired *commitreveal.ErrCommitmentExpired
	require.ErrorAs(t, err, &expired)
}

func TestRevealAndRegister_RejectsWrongCommitter(t *testing.T) {
	registrar := &fakeRegistrar{}
	clock := &fakeClock{block: 10}
	w := commitreveal.NewWrapper(registrar, clock, 1, 256)

	p := testPreimage()
	w.Commit(chain.Address{0x05}, commitreveal.CommitmentHash(p))

	clock.block = 12
	err := w.RevealAndRegister(context.Background(), chain.Address{0x06}, p)
	require.Error(t, err)
	var wrong *commitreveal.ErrWrongCommitter
	require.ErrorAs(t, err, &wrong)
}

func TestRevealAndRegister_ConsumesCommitmentOnce(t *testing.T) {
	registrar := &fakeRegistrar{}
	clock := &fakeClock{block: 10}
	w := commitreveal.NewWrapper(registrar, clock, 1, 256)

	committer := chain.Address{0x05}
	p := testPreimage()
	w.Commit(committer, commitreveal.CommitmentHash(p))

	clock.block = 12
	require.NoError(t, w.RevealAndRegister(context.Background(), committer, p))

	err := w.RevealAndRegister(context.Background(), committer, p)
	require.Error(t, err)
	var noSuch *commitreveal.ErrNoSuchCommitment
	require.ErrorAs(t, err, &noSuch)
}

func TestRevealAndRegister_RejectsUnknownCommitment(t *testing.T) {
	registrar := &fakeRegistrar{}
	clock := &fakeClock{block: 10}
	w := commitreveal.NewWrapper(registrar, clock, 1, 256)

	err := w.RevealAndRegister(context.Background(), chain.Address{0x05}, testPreimage())
	require.Error(t, err)
	var noSuch *commitreveal.ErrNoSuchCommitment
	require.ErrorAs(t, err, &noSuch)
}
