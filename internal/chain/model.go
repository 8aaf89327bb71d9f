package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// OutgoingCall is a declared L2→L1 effect (spec §3).
//
// post_call_state_hash is the L2 state root the STC commit path expects
// to hold immediately after this particular L1 call returns; it may
// equal the pre-call root when the call does not reenter L2.
type OutgoingCall struct {
	From              Address `json:"from"`
	Target            Address `json:"target"`
	Value             *Value  `json:"value"`
	Gas               uint64  `json:"gas"`
	Data              Bytes   `json:"data"`
	PostCallStateHash Hash32  `json:"postCallStateHash"`
}

// IncomingCallResponse is a pre-announced response for a single L1→L2
// call (spec §3). The invariant len(OutgoingCalls) == len(ExpectedResults)
// is enforced by Validate, not by the struct shape, because it must
// survive JSON/RLP round trips from untrusted sources (BP's /submit
// body, STC's register_incoming_call transaction payload).
type IncomingCallResponse struct {
	PreOutgoingStateHash Hash32         `json:"preOutgoingStateHash"`
	OutgoingCalls        []OutgoingCall `json:"outgoingCalls"`
	ExpectedResults      []Bytes        `json:"expectedResults"`
	ReturnValue          Bytes          `json:"returnValue"`
	FinalStateHash       Hash32         `json:"finalStateHash"`
}

// Validate enforces the len(outgoing_calls) == len(expected_results)
// invariant from spec §3.
func (r *IncomingCallResponse) Validate() error {
	if len(r.OutgoingCalls) != len(r.ExpectedResults) {
		return fmt.Errorf(
			"incoming call response: %d outgoing calls but %d expected results",
			len(r.OutgoingCalls), len(r.ExpectedResults),
		)
	}
	return nil
}

// ResponseFieldsHash digests every field of a response, used by the
// Commit-Reveal Wrapper's commitment hash (spec §4.5) to bind a
// commitment to one exact response.
func (r *IncomingCallResponse) ResponseFieldsHash() Hash32 {
	encoded, err := EncodeOutgoingCalls(r.OutgoingCalls)
	if err != nil {
		// OutgoingCalls only ever holds the fixed-shape struct above;
		// RLP encoding of it cannot fail.
		panic(fmt.Sprintf("chain: encode outgoing calls: %v", err))
	}
	parts := [][]byte{r.PreOutgoingStateHash.Bytes(), encoded, r.ReturnValue, r.FinalStateHash.Bytes()}
	for _, res := range r.ExpectedResults {
		parts = append(parts, res)
	}
	return Keccak256Hash(parts...)
}

// ResponseKey uniquely identifies a pre-announced response:
// keccak(encode(l2_address, state_hash, keccak(call_data))).
func ResponseKey(l2Address Address, stateHash Hash32, callData Bytes) Hash32 {
	callDataHash := BytesHash(callData)
	return Keccak256Hash(l2Address.Bytes(), stateHash.Bytes(), callDataHash.Bytes())
}

// EncodeOutgoingCalls RLP-encodes a slice of OutgoingCall, the same
// representation STC's L2BlockProcessed/IncomingCallHandled events carry
// so that DFR can decode and replay them byte-for-byte.
func EncodeOutgoingCalls(calls []OutgoingCall) (Bytes, error) {
	return rlp.EncodeToBytes(calls)
}

// DecodeOutgoingCalls is the inverse of EncodeOutgoingCalls.
func DecodeOutgoingCalls(data Bytes) ([]OutgoingCall, error) {
	var calls []OutgoingCall
	if err := rlp.DecodeBytes(data, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}
