// Package commitreveal implements the optional Commit-Reveal Wrapper
// (spec §4.5): a thin anti-MEV envelope in front of
// register_incoming_call that hides a prover's response behind a
// commitment for at least MinCommitAge blocks, so a competing prover
// observing the mempool cannot front-run the reveal with the same
// response.
//
// The commitment hash follows the same keccak discipline as
// internal/stc's ResponseKey rather than certen's SHA-256/RFC8785
// canonical-JSON scheme — this module already standardized the rest of
// its hash family on keccak256, and a JSON envelope is unnecessary here
// since the preimage's field set is fixed, not schema-less.
package commitreveal

import (
	"context"
	"fmt"
	"sync"

	"github.com/nativerollup/bridge/bindings/encoding"
	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/proofverifier"
)

// Registrar is the subset of STC's surface Reveal forwards into once a
// commitment has aged into its reveal window.
type Registrar interface {
	RegisterIncomingCall(
		ctx context.Context, scheme proofverifier.Scheme,
		l2Address chain.Address, stateHash chain.Hash32, callData chain.Bytes,
		response *chain.IncomingCallResponse, proof chain.Bytes,
	) error
}

// BlockSource reports the current L1 block number, the clock Commit and
// Reveal measure commitment age against.
type BlockSource interface {
	CurrentBlock() uint64
}

// Preimage is every field the commitment hash in spec §4.5 is a digest
// of. Reveal requires the caller to supply the exact preimage a prior
// Commit hashed.
type Preimage struct {
	L2Address chain.Address
	StateHash chain.Hash32
	CallData  chain.Bytes
	Response  *chain.IncomingCallResponse
	Proof     chain.Bytes
	Secret    chain.Hash32
	Scheme    proofverifier.Scheme
}

// CommitmentHash computes h = keccak(l2_address, state_hash,
// keccak(calldata), keccak(response_fields), keccak(proof), secret),
// the exact digest spec §4.5 defines.
func CommitmentHash(p Preimage) chain.Hash32 {
	return chain.Keccak256Hash(
		p.L2Address.Bytes(),
		p.StateHash.Bytes(),
		chain.BytesHash(p.CallData).Bytes(),
		p.Response.ResponseFieldsHash().Bytes(),
		chain.BytesHash(p.Proof).Bytes(),
		p.Secret.Bytes(),
	)
}

type commitment struct {
	block     uint64
	committer chain.Address
}

// ErrCommitmentTooNew is returned when reveal is attempted before
// commitBlock + MinCommitAge.
type ErrCommitmentTooNew struct{ ReadyAt, Current uint64 }

func (e *ErrCommitmentTooNew) Error() string {
	return fmt.Sprintf("commitreveal: commitment too new: ready at block %d, current %d", e.ReadyAt, e.Current)
}

// ErrCommitmentExpired is returned when reveal is attempted after
// commitBlock + MaxCommitAge.
type ErrCommitmentExpired struct{ ExpiredAt, Current uint64 }

func (e *ErrCommitmentExpired) Error() string {
	return fmt.Sprintf("commitreveal: commitment expired: expired at block %d, current %d", e.ExpiredAt, e.Current)
}

// ErrNoSuchCommitment is returned when reveal names a hash never
// committed, or one already consumed.
type ErrNoSuchCommitment struct{ Hash chain.Hash32 }

func (e *ErrNoSuchCommitment) Error() string {
	return fmt.Sprintf("commitreveal: no such commitment: %s", e.Hash)
}

// ErrWrongCommitter is returned when reveal is attempted by anyone other
// than the address that committed the hash.
type ErrWrongCommitter struct{ Expected, Got chain.Address }

func (e *ErrWrongCommitter) Error() string {
	return fmt.Sprintf("commitreveal: wrong committer: expected %s, got %s", e.Expected, e.Got)
}

// ErrPreimageMismatch is returned when the supplied preimage does not
// hash to the committed value.
type ErrPreimageMismatch struct{ Committed, Got chain.Hash32 }

func (e *ErrPreimageMismatch) Error() string {
	return fmt.Sprintf("commitreveal: preimage mismatch: committed %s, got %s", e.Committed, e.Got)
}

// Wrapper is the Commit-Reveal gateway sitting in front of a Registrar.
// A single instance is not reentrancy-guarded the way STC is — Commit
// and Reveal touch only this wrapper's own map, never STC's ledger,
// until the moment Reveal forwards into RegisterIncomingCall.
type Wrapper struct {
	registrar Registrar
	blocks    BlockSource
	minAge    uint64
	maxAge    uint64

	mu          sync.Mutex
	commitments map[chain.Hash32]commitment
}

// NewWrapper wires a Wrapper to the Registrar it forwards reveals into
// and the clock it measures commitment age against. minAge/maxAge
// default to encoding.MinCommitAge/MaxCommitAge when zero.
func NewWrapper(registrar Registrar, blocks BlockSource, minAge, maxAge uint64) *Wrapper {
	if minAge == 0 {
		minAge = encoding.MinCommitAge
	}
	if maxAge == 0 {
		maxAge = encoding.MaxCommitAge
	}
	return &Wrapper{
		registrar:   registrar,
		blocks:      blocks,
		minAge:      minAge,
		maxAge:      maxAge,
		commitments: make(map[chain.Hash32]commitment),
	}
}

// Commit records an opaque commitment hash against the current block
// and the committing address (spec §4.5, commit).
func (w *Wrapper) Commit(committer chain.Address, h chain.Hash32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.commitments[h] = commitment{block: w.blocks.CurrentBlock(), committer: committer}
}

// RevealAndRegister validates the reveal window, the committer, and the
// preimage, then forwards to RegisterIncomingCall (spec §4.5,
// reveal_and_register). The commitment is consumed exactly once,
// regardless of whether the forwarded registration succeeds. A reveal
// rejected by the committer or window checks leaves the commitment in
// place.
func (w *Wrapper) RevealAndRegister(ctx context.Context, committer chain.Address, p Preimage) error {
	h := CommitmentHash(p)

	w.mu.Lock()
	c, ok := w.commitments[h]
	if !ok {
		w.mu.Unlock()
		return &ErrNoSuchCommitment{Hash: h}
	}

	if committer != c.committer {
		w.mu.Unlock()
		return &ErrWrongCommitter{Expected: c.committer, Got: committer}
	}

	current := w.blocks.CurrentBlock()
	if current < c.block+w.minAge {
		w.mu.Unlock()
		return &ErrCommitmentTooNew{ReadyAt: c.block + w.minAge, Current: current}
	}
	if current > c.block+w.maxAge {
		w.mu.Unlock()
		return &ErrCommitmentExpired{ExpiredAt: c.block + w.maxAge, Current: current}
	}
	delete(w.commitments, h)
	w.mu.Unlock()

	return w.registrar.RegisterIncomingCall(ctx, p.Scheme, p.L2Address, p.StateHash, p.CallData, p.Response, p.Proof)
}
