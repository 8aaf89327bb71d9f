// Package proofverifier implements the ProofVerifier oracle from spec
// §2/§6: a pure function of (prev_root, input, post_root, outgoing_calls,
// expected_results, final_root, proof) to YES/NO. Two strategies are
// provided, generalized from certenIO-certen-validator's
// pkg/attestation/strategy interface (a Scheme-tagged, pluggable
// verification strategy): a default single-admin ECDSA signature check,
// and a succinct/ZK strategy built on consensys/gnark for deployments
// that want real succinctness instead of a trusted signer.
package proofverifier

import (
	"context"
	"fmt"

	"github.com/nativerollup/bridge/internal/chain"
)

// Scheme identifies which verification strategy produced/consumes a
// given proof, mirroring certen's AttestationScheme tag.
type Scheme string

const (
	SchemeAdminSignature Scheme = "admin-sig"
	SchemeSuccinct       Scheme = "succinct-gnark"
)

// Transition bundles the full input the verifier must answer YES/NO on.
// This is exactly the tuple named in spec §2.
type Transition struct {
	PrevRoot        chain.Hash32
	Input           chain.Bytes
	PostRoot        chain.Hash32
	OutgoingCalls   []chain.OutgoingCall
	ExpectedResults []chain.Bytes
	FinalRoot       chain.Hash32
}

// Digest returns the canonical message a verifier signs/proves over.
// Every strategy must hash the transition identically so that a proof
// produced by one strategy can never be replayed against another.
func (t Transition) Digest() chain.Hash32 {
	parts := [][]byte{t.PrevRoot.Bytes(), t.Input, t.PostRoot.Bytes()}
	for _, oc := range t.OutgoingCalls {
		parts = append(parts,
			oc.From.Bytes(), oc.Target.Bytes(), oc.Data, oc.PostCallStateHash.Bytes(),
			chain.EncodeUint64(oc.Gas),
		)
	}
	for _, r := range t.ExpectedResults {
		parts = append(parts, r)
	}
	parts = append(parts, t.FinalRoot.Bytes())
	return chain.Keccak256Hash(parts...)
}

// ProofVerifier is the pluggable oracle interface STC depends on. It
// must be safe for concurrent use: STC itself is single-threaded by
// construction (spec §5), but DFR and BP also verify proofs locally
// during simulation and may do so concurrently with STC's own checks.
type ProofVerifier interface {
	Scheme() Scheme
	Verify(ctx context.Context, transition Transition, proof chain.Bytes) (bool, error)
}

// ErrUnknownScheme is returned by Registry.Get for an unregistered scheme.
var ErrUnknownScheme = fmt.Errorf("proofverifier: unknown scheme")

// Registry resolves a Scheme to a configured ProofVerifier, letting a
// single STC deployment accept proofs from more than one strategy during
// a migration window (e.g. admin-sig bootstrapping before a succinct
// verifier is deployed).
type Registry struct {
	verifiers map[Scheme]ProofVerifier
}

// NewRegistry builds a Registry from the given verifiers, keyed by their
// own Scheme().
func NewRegistry(verifiers ...ProofVerifier) *Registry {
	r := &Registry{verifiers: make(map[Scheme]ProofVerifier, len(verifiers))}
	for _, v := range verifiers {
		r.verifiers[v.Scheme()] = v
	}
	return r
}

// Get returns the verifier registered for scheme, or ErrUnknownScheme.
func (r *Registry) Get(scheme Scheme) (ProofVerifier, error) {
	v, ok := r.verifiers[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
	}
	return v, nil
}
