package stc

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/proofverifier"
	"github.com/nativerollup/bridge/internal/senderproxy"
)

// White-box test: exercises the callMu guard directly, which an external
// test package has no way to hold independently of ProcessL2Block itself.
func TestProcessL2Block_RejectsConcurrentOuterCall(t *testing.T) {
	adminKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	genesis := chain.ZeroHash
	registry := senderproxy.NewL1Registry(chain.Address{0xAA}, chain.Bytes{0x60, 0x00})
	verifiers := proofverifier.NewRegistry(
		proofverifier.NewAdminSignatureVerifier(crypto.PubkeyToAddress(adminKey.PublicKey)),
	)
	s := New(Config{
		GenesisRoot: genesis,
		Registry:    registry,
		Verifiers:   verifiers,
		Bus:         chain.NewEventBus(),
	})

	s.callMu.Lock()
	defer s.callMu.Unlock()

	finalRoot := chain.Keccak256Hash([]byte("block-1"))
	tr := proofverifier.Transition{PrevRoot: genesis, PostRoot: genesis, FinalRoot: finalRoot}
	proof, err := proofverifier.SignTransition(tr, adminKey)
	require.NoError(t, err)

	err = s.ProcessL2Block(context.Background(), proofverifier.SchemeAdminSignature, genesis, nil, genesis, nil, nil, finalRoot, proof)
	require.Error(t, err)
	var reentrancyErr *ErrReentrancy
	require.ErrorAs(t, err, &reentrancyErr)
}
