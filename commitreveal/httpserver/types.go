package httpserver

import "github.com/nativerollup/bridge/internal/chain"

// CommitRequestBody is the JSON shape POST /commit accepts: the
// committer and the commitment hash it is binding (spec §4.5, commit).
type CommitRequestBody struct {
	Committer chain.Address `json:"committer"`
	Hash      chain.Hash32  `json:"hash"`
}

// RevealRequestBody is the JSON shape POST /reveal accepts: the full
// preimage a prior commit hashed, plus the committer presenting it
// (spec §4.5, reveal_and_register).
type RevealRequestBody struct {
	Committer chain.Address              `json:"committer"`
	L2Address chain.Address              `json:"l2Address"`
	StateHash chain.Hash32               `json:"stateHash"`
	CallData  chain.Bytes                `json:"callData"`
	Response  *chain.IncomingCallResponse `json:"response"`
	Proof     chain.Bytes                `json:"proof"`
	Secret    chain.Hash32               `json:"secret"`
	Scheme    string                     `json:"scheme"`
}

// CommitResponse acknowledges a commitment was recorded.
type CommitResponse struct {
	Hash chain.Hash32 `json:"hash"`
}

// RevealResponse acknowledges a reveal was forwarded into registration.
type RevealResponse struct {
	Registered bool `json:"registered"`
}
