package l2env_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/l2env"
	"github.com/nativerollup/bridge/internal/senderproxy"
)

func newTestEnv(genesis chain.Hash32) *l2env.Environment {
	l2reg := senderproxy.NewL2Registry(chain.Address{0xF1}, chain.Bytes{0x60, 0x00})
	return l2env.New(genesis, l2reg)
}

func TestApply_AdvancesRootInOrder(t *testing.T) {
	genesis := chain.ZeroHash
	env := newTestEnv(genesis)

	root1 := chain.Keccak256Hash([]byte("root-1"))
	err := env.Apply(chain.L2BlockProcessedEvent{
		Position:    chain.LogPosition{BlockNumber: 1, LogIndex: 0},
		BlockNumber: 1,
		PrevRoot:    genesis,
		NewRoot:     root1,
	})
	require.NoError(t, err)
	require.Equal(t, root1, env.StateRoot())
	require.EqualValues(t, 1, env.BlockNumber())
}

func TestApply_RejectsChainMismatch(t *testing.T) {
	env := newTestEnv(chain.ZeroHash)

	wrongPrev := chain.Keccak256Hash([]byte("not-genesis"))
	err := env.Apply(chain.L2BlockProcessedEvent{
		Position: chain.LogPosition{BlockNumber: 1, LogIndex: 0},
		PrevRoot: wrongPrev,
		NewRoot:  chain.Keccak256Hash([]byte("root-1")),
	})
	require.Error(t, err)
	var mismatch *l2env.ErrChainMismatch
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, chain.ZeroHash, env.StateRoot(), "a rejected event must not mutate state")
}

func TestApply_RejectsOutOfOrderEvents(t *testing.T) {
	env := newTestEnv(chain.ZeroHash)

	root1 := chain.Keccak256Hash([]byte("root-1"))
	require.NoError(t, env.Apply(chain.L2BlockProcessedEvent{
		Position: chain.LogPosition{BlockNumber: 5, LogIndex: 2},
		PrevRoot: chain.ZeroHash, NewRoot: root1,
	}))

	err := env.Apply(chain.L2BlockProcessedEvent{
		Position: chain.LogPosition{BlockNumber: 5, LogIndex: 1},
		PrevRoot: root1, NewRoot: chain.Keccak256Hash([]byte("root-2")),
	})
	require.ErrorIs(t, err, l2env.ErrOutOfOrder)
}

func TestSnapshotRevert_RestoresStateAndProxyCache(t *testing.T) {
	env := newTestEnv(chain.ZeroHash)

	l1Addr := chain.Address{0x01}
	proxyBefore := env.L2SenderProxyFor(l1Addr)

	snap := env.Snapshot()

	root1 := chain.Keccak256Hash([]byte("root-1"))
	require.NoError(t, env.Apply(chain.L2BlockProcessedEvent{
		Position: chain.LogPosition{BlockNumber: 1, LogIndex: 0},
		PrevRoot: chain.ZeroHash, NewRoot: root1, BlockNumber: 1,
	}))
	require.Equal(t, root1, env.StateRoot())

	env.Revert(snap)
	require.Equal(t, chain.ZeroHash, env.StateRoot())
	require.EqualValues(t, 0, env.BlockNumber())
	require.Equal(t, proxyBefore, env.L2SenderProxyFor(l1Addr))
}

func TestGenesisAddresses_AreDeterministic(t *testing.T) {
	a := l2env.ComputeGenesisAddresses()
	b := l2env.ComputeGenesisAddresses()
	require.Equal(t, a, b)
	require.NotEqual(t, a.CallRegistry, a.SenderProxyL2Factory)
}
