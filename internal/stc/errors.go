package stc

import (
	"fmt"

	"github.com/nativerollup/bridge/internal/chain"
)

// Error kinds from spec §7 "STC commit path" / "STC registration path" /
// "STC incoming-call gateway". All are fatal to the enclosing operation;
// ProcessL2Block and HandleIncomingCall never apply a partial state
// change on any of these (spec invariant: "partial state advancement is
// impossible").

// ErrInvalidPrev is returned when prev_root != l2_root at commit time.
type ErrInvalidPrev struct {
	Expected, Got chain.Hash32
}

func (e *ErrInvalidPrev) Error() string {
	return fmt.Sprintf("stc: invalid prev root: expected %x, got %x", e.Expected, e.Got)
}

// ErrProofInvalid is returned when the configured ProofVerifier rejects.
type ErrProofInvalid struct{ Scheme string }

func (e *ErrProofInvalid) Error() string { return fmt.Sprintf("stc: proof invalid (scheme=%s)", e.Scheme) }

// ErrReentrancy is returned when a second outer call is attempted while
// one is already in flight.
type ErrReentrancy struct{}

func (e *ErrReentrancy) Error() string { return "stc: reentrancy guard engaged" }

// ErrOutgoingCallFailed is returned when outgoing call i reverts.
type ErrOutgoingCallFailed struct {
	Index int
	Cause error
}

func (e *ErrOutgoingCallFailed) Error() string {
	return fmt.Sprintf("stc: outgoing call %d failed: %v", e.Index, e.Cause)
}
func (e *ErrOutgoingCallFailed) Unwrap() error { return e.Cause }

// ErrUnexpectedCallResult is returned when keccak(result) != keccak(expected).
type ErrUnexpectedCallResult struct {
	Index           int
	Expected, Actual chain.Hash32
}

func (e *ErrUnexpectedCallResult) Error() string {
	return fmt.Sprintf(
		"stc: outgoing call %d returned unexpected result: expected %x, got %x",
		e.Index, e.Expected, e.Actual,
	)
}

// ErrUnexpectedPostCallState is returned when l2_root after the call
// does not equal the declared post_call_state_hash.
type ErrUnexpectedPostCallState struct {
	Index            int
	Expected, Actual chain.Hash32
}

func (e *ErrUnexpectedPostCallState) Error() string {
	return fmt.Sprintf(
		"stc: outgoing call %d left unexpected state: expected %x, got %x",
		e.Index, e.Expected, e.Actual,
	)
}

// ErrUnexpectedFinalState reports a root after the full outgoing-call
// loop that differs from the declared final root. ProcessL2Block and
// HandleIncomingCall do not return it: both set l2_root to the declared
// final root once the loop has passed.
type ErrUnexpectedFinalState struct {
	Expected, Actual chain.Hash32
}

func (e *ErrUnexpectedFinalState) Error() string {
	return fmt.Sprintf("stc: unexpected final state: expected %x, got %x", e.Expected, e.Actual)
}

// ErrAlreadyRegistered is returned by RegisterIncomingCall when the
// ResponseKey is already taken.
type ErrAlreadyRegistered struct{ Key chain.Hash32 }

func (e *ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("stc: response already registered for key %x", e.Key)
}

// ErrOnlyProxy is returned when HandleIncomingCall is invoked by anyone
// other than the SenderProxyL1 owned for l2Address.
type ErrOnlyProxy struct{ L2Address chain.Address }

func (e *ErrOnlyProxy) Error() string {
	return fmt.Sprintf("stc: handle_incoming_call must be called by the proxy for %x", e.L2Address)
}

// ErrNotRegistered is returned when no response exists for the current
// (l2_address, l2_root, call_data) key.
type ErrNotRegistered struct{ Key chain.Hash32 }

func (e *ErrNotRegistered) Error() string {
	return fmt.Sprintf("stc: no response registered for key %x", e.Key)
}
