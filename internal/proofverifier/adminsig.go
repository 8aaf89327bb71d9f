package proofverifier

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/nativerollup/bridge/internal/chain"
)

// AdminSignatureVerifier is the spec's default ProofVerifier
// instantiation: a single admin key signs the transition digest, and
// verification is an ECDSA signature recovery check against the
// configured admin address. It carries no succinctness guarantee and is
// meant only as the bootstrap trust model spec §2 describes.
type AdminSignatureVerifier struct {
	adminAddress chain.Address
}

// NewAdminSignatureVerifier configures the verifier to accept only
// signatures recoverable to adminAddress.
func NewAdminSignatureVerifier(adminAddress chain.Address) *AdminSignatureVerifier {
	return &AdminSignatureVerifier{adminAddress: adminAddress}
}

// Scheme implements ProofVerifier.
func (v *AdminSignatureVerifier) Scheme() Scheme { return SchemeAdminSignature }

// Verify implements ProofVerifier by recovering the signer of the
// transition digest from proof (a standard 65-byte [R || S || V]
// signature) and comparing it to the configured admin address.
func (v *AdminSignatureVerifier) Verify(
	_ context.Context, transition Transition, proof chain.Bytes,
) (bool, error) {
	if len(proof) != 65 {
		return false, nil
	}

	digest := transition.Digest()

	pubKey, err := crypto.SigToPub(digest.Bytes(), proof)
	if err != nil {
		return false, nil //nolint:nilerr // malformed signature means reject, not error
	}

	return crypto.PubkeyToAddress(*pubKey) == v.adminAddress, nil
}

// SignTransition is a convenience used by BP/DFR test harnesses and by
// the admin CLI's offline-signing path: it produces the 65-byte
// signature AdminSignatureVerifier.Verify expects.
func SignTransition(transition Transition, key *ecdsa.PrivateKey) (chain.Bytes, error) {
	digest := transition.Digest()
	sig, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return nil, fmt.Errorf("sign transition digest: %w", err)
	}
	return sig, nil
}
