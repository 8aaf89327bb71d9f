package bp

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/bp"
	"github.com/nativerollup/bridge/cmd/flags"
	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/proofverifier"
)

// Config is everything InitFromCli needs to build a Planner, Builder
// and httpserver.Server.
type Config struct {
	L1RPCUrl string

	DfrRPCUrl string
	StcRPCUrl string

	ProposerPrivKey *ecdsa.PrivateKey

	VerifierStrategy string
	DiscoveryRoundCap int

	ListenAddr string

	StcContractAddress   chain.Address
	L1SenderProxyInitCode chain.Bytes
}

// NewConfigFromCliContext builds a Config from parsed flags.
func NewConfigFromCliContext(c *cli.Context) (*Config, error) {
	privKey, err := crypto.ToECDSA(common.Hex2Bytes(c.String(flags.BpProposerPrivKey.Name)))
	if err != nil {
		return nil, fmt.Errorf("bp.proposerPrivKey: %w", err)
	}
	initCode, err := hexutil.Decode(c.String(flags.BpL1SenderProxyInitCode.Name))
	if err != nil {
		return nil, fmt.Errorf("bp.l1SenderProxyInitCode: %w", err)
	}

	return &Config{
		L1RPCUrl:              c.String(flags.L1RPCUrl.Name),
		DfrRPCUrl:             c.String(flags.BpDfrRPCUrl.Name),
		StcRPCUrl:             c.String(flags.BpStcRPCUrl.Name),
		ProposerPrivKey:       privKey,
		VerifierStrategy:      c.String(flags.BpVerifierStrategy.Name),
		DiscoveryRoundCap:     c.Int(flags.BpDiscoveryRoundCap.Name),
		ListenAddr:            c.String(flags.BpListenAddr.Name),
		StcContractAddress:    common.HexToAddress(c.String(flags.BpStcContractAddress.Name)),
		L1SenderProxyInitCode: initCode,
	}, nil
}

// responseSigner builds the bp.ResponseSigner RegisterIncomingCall's
// configured scheme expects, wrapping the same transition shape
// internal/stc.STC.RegisterIncomingCall verifies proofs against.
func responseSigner(scheme proofverifier.Scheme, key *ecdsa.PrivateKey) bp.ResponseSigner {
	return func(stateHash chain.Hash32, callData chain.Bytes, response *chain.IncomingCallResponse) (chain.Bytes, error) {
		switch scheme {
		case proofverifier.SchemeAdminSignature:
			return proofverifier.SignTransition(proofverifier.Transition{
				PrevRoot:        stateHash,
				Input:           callData,
				PostRoot:        stateHash,
				OutgoingCalls:   response.OutgoingCalls,
				ExpectedResults: response.ExpectedResults,
				FinalRoot:       response.FinalStateHash,
			}, key)
		default:
			return nil, fmt.Errorf("bp: signing for verifier strategy %q is not implemented", scheme)
		}
	}
}
