package dfr_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/dfr"
	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/senderproxy"
)

// recordingExecutor always succeeds and reports a fixed set of outgoing
// calls, so tests can assert detection/dispatch without a real EVM.
type recordingExecutor struct {
	outgoing []chain.OutgoingCall
	calls    int
}

func (e *recordingExecutor) Call(
	_ context.Context, _, _ chain.Address, _ *chain.Value, _ uint64, data chain.Bytes,
) (chain.Bytes, bool, []chain.OutgoingCall, error) {
	e.calls++
	return data, true, e.outgoing, nil
}

func newTestDriver(t *testing.T, executor dfr.L2Executor) *dfr.Driver {
	t.Helper()
	bus := chain.NewEventBus()
	l2reg := senderproxy.NewL2Registry(chain.Address{0xF1}, chain.Bytes{0x60, 0x00})
	d := &dfr.Driver{}
	err := dfr.InitFromConfig(context.Background(), d, &dfr.Config{
		GenesisRoot:          chain.ZeroHash,
		BackOffMaxRetries:    3,
		BackOffRetryInterval: 10 * time.Millisecond,
	}, bus, l2reg, executor)
	require.NoError(t, err)
	return d
}

func TestSimulateL1ToL2Call_IsPure(t *testing.T) {
	executor := &recordingExecutor{}
	d := newTestDriver(t, executor)

	rootBefore := d.GetStateRoot()
	resp, err := d.SimulateL1ToL2Call(context.Background(), chain.Address{0x01}, chain.Address{0x02}, chain.ValueFromUint64(0), 21000, chain.Bytes("x"))
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Equal(t, rootBefore, d.GetStateRoot(), "simulate must never mutate committed state")
}

func TestDetectL2OutgoingCalls_RevertsAfterDetection(t *testing.T) {
	want := []chain.OutgoingCall{{Target: chain.Address{0x09}, Data: chain.Bytes("call-out")}}
	executor := &recordingExecutor{outgoing: want}
	d := newTestDriver(t, executor)

	rootBefore := d.GetStateRoot()
	got, err := d.DetectL2OutgoingCalls(context.Background(), chain.Address{0x01}, chain.Address{0x02}, chain.ValueFromUint64(0), 21000, nil)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, rootBefore, d.GetStateRoot())
}

func TestGetL1SenderProxyL2_IsDeterministic(t *testing.T) {
	d := newTestDriver(t, &recordingExecutor{})
	l1Addr := chain.Address{0x03}
	a := d.GetL1SenderProxyL2(l1Addr)
	b := d.EnsureL1SenderProxyL2(l1Addr)
	require.Equal(t, a, b)
}

func TestVerifyStateChain_DetectsDivergence(t *testing.T) {
	d := newTestDriver(t, &recordingExecutor{})
	err := d.VerifyStateChain(chain.Keccak256Hash([]byte("different")), 1)
	require.ErrorIs(t, err, dfr.ErrReplayerDiverged)
}

func TestEventLoop_HaltsOnStateMismatchByDefault(t *testing.T) {
	bus := chain.NewEventBus()
	l2reg := senderproxy.NewL2Registry(chain.Address{0xF2}, chain.Bytes{0x60, 0x00})
	d := &dfr.Driver{}
	require.NoError(t, dfr.InitFromConfig(context.Background(), d, &dfr.Config{
		GenesisRoot:          chain.ZeroHash,
		BackOffMaxRetries:    1,
		BackOffRetryInterval: time.Millisecond,
	}, bus, l2reg, &recordingExecutor{}))
	require.NoError(t, d.Start())
	defer d.Close(context.Background())

	bus.Publish(chain.L2BlockProcessedEvent{
		Position:    chain.LogPosition{BlockNumber: 1, LogIndex: 0},
		PrevRoot:    chain.Keccak256Hash([]byte("wrong-prev")),
		NewRoot:     chain.Keccak256Hash([]byte("x")),
		BlockNumber: 1,
	})

	require.Eventually(t, func() bool { return d.LastError() != nil }, time.Second, 5*time.Millisecond,
		"a StateMismatch must halt the replay loop by default")
}

func TestEventLoop_IgnoresStateMismatchWhenConfigured(t *testing.T) {
	bus := chain.NewEventBus()
	l2reg := senderproxy.NewL2Registry(chain.Address{0xF3}, chain.Bytes{0x60, 0x00})
	d := &dfr.Driver{}
	require.NoError(t, dfr.InitFromConfig(context.Background(), d, &dfr.Config{
		GenesisRoot:          chain.ZeroHash,
		BackOffMaxRetries:    1,
		BackOffRetryInterval: time.Millisecond,
		IgnoreStateMismatch:  true,
	}, bus, l2reg, &recordingExecutor{}))
	require.NoError(t, d.Start())
	defer d.Close(context.Background())

	bus.Publish(chain.L2BlockProcessedEvent{
		Position:    chain.LogPosition{BlockNumber: 1, LogIndex: 0},
		PrevRoot:    chain.Keccak256Hash([]byte("wrong-prev")),
		NewRoot:     chain.Keccak256Hash([]byte("x")),
		BlockNumber: 1,
	})
	bus.Publish(chain.L2BlockProcessedEvent{
		Position:    chain.LogPosition{BlockNumber: 2, LogIndex: 0},
		PrevRoot:    chain.ZeroHash,
		NewRoot:     chain.Keccak256Hash([]byte("y")),
		BlockNumber: 2,
	})

	require.Eventually(t, func() bool { return d.Environment().BlockNumber() == 2 }, time.Second, 5*time.Millisecond,
		"replay must continue past the ignored mismatch and apply the next good event")
	require.Nil(t, d.LastError())
}

func TestCatchUp_AppliesOutOfOrderBatchSorted(t *testing.T) {
	d := newTestDriver(t, &recordingExecutor{})

	root1 := chain.Keccak256Hash([]byte("root-1"))
	root2 := chain.Keccak256Hash([]byte("root-2"))

	// Deliberately out of order: block 2 before block 1.
	events := []chain.StateEvent{
		chain.L2BlockProcessedEvent{
			Position: chain.LogPosition{BlockNumber: 2, LogIndex: 0},
			PrevRoot: root1, NewRoot: root2, BlockNumber: 2,
		},
		chain.L2BlockProcessedEvent{
			Position: chain.LogPosition{BlockNumber: 1, LogIndex: 0},
			PrevRoot: chain.ZeroHash, NewRoot: root1, BlockNumber: 1,
		},
	}

	err := d.CatchUp(events)
	require.NoError(t, err)
	require.Equal(t, root2, d.GetStateRoot())
	require.EqualValues(t, 2, d.Environment().BlockNumber())
}
