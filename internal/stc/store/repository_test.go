package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/stc/store"
	"github.com/nativerollup/bridge/internal/testutils"
)

// These exercise the real MySQL-backed repository. In short mode (`go
// test -short`) they are skipped outright; otherwise they spin up an
// ephemeral MySQL via testutils.StartMySQL, unless STC_TEST_DATABASE_DSN
// already points at one.
func testRepository(t *testing.T) *store.Repository {
	if testing.Short() {
		t.Skip("skipping store integration test in -short mode")
	}
	dsn := os.Getenv("STC_TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = testutils.StartMySQL(t)
	}
	db, err := store.Open(dsn)
	require.NoError(t, err)
	return store.NewRepository(db)
}

func TestSaveAndLoadState_RoundTrips(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	root := chain.Hash32{0x01, 0x02}
	require.NoError(t, repo.SaveState(ctx, root, 42))

	gotRoot, gotBlock, ok, err := repo.LoadState(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, root, gotRoot)
	require.Equal(t, uint64(42), gotBlock)
}

func TestSaveLoadDeleteResponse_RoundTrips(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	l2Address := chain.Address{0x03}
	stateHash := chain.Hash32{0x04}
	callData := []byte{0xaa, 0xbb}
	response := &chain.IncomingCallResponse{
		PreOutgoingStateHash: chain.Hash32{0x05},
		OutgoingCalls: []chain.OutgoingCall{
			{From: chain.Address{0x06}, Target: chain.Address{0x07}, Value: chain.ValueFromUint64(0), Gas: 1000, Data: []byte{0x01}, PostCallStateHash: chain.Hash32{0x08}},
		},
		ExpectedResults: []chain.Bytes{{0x09}},
		ReturnValue:     []byte{0x0a},
		FinalStateHash:  chain.Hash32{0x0b},
	}
	key := chain.ResponseKey(l2Address, stateHash, callData)

	require.NoError(t, repo.SaveResponse(ctx, key, l2Address, stateHash, callData, response))

	loaded, err := repo.LoadResponse(ctx, key)
	require.NoError(t, err)
	require.Equal(t, response.FinalStateHash, loaded.FinalStateHash)
	require.Equal(t, response.OutgoingCalls, loaded.OutgoingCalls)

	require.NoError(t, repo.DeleteResponse(ctx, key))
	_, err = repo.LoadResponse(ctx, key)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveAndLoadSenderProxies_RoundTrips(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	l2Address := chain.Address{0x0c}
	proxyL1 := chain.Address{0x0d}
	require.NoError(t, repo.SaveSenderProxy(ctx, l2Address, proxyL1))

	proxies, err := repo.LoadSenderProxies(ctx)
	require.NoError(t, err)
	require.Equal(t, proxyL1, proxies[l2Address])
}
