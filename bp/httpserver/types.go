package httpserver

import "github.com/nativerollup/bridge/internal/chain"

// IncomingCallRequestBody is the JSON shape /submit and /simulate accept:
// the root L1→L2 call BP should trace (spec §6, BP HTTP surface).
type IncomingCallRequestBody struct {
	L1Caller  chain.Address `json:"l1Caller"`
	L2Address chain.Address `json:"l2Address"`
	Value     string        `json:"value"`
	Gas       uint64        `json:"gas"`
	CallData  chain.Bytes   `json:"callData"`
}

// PlanResponse is returned by both /submit and /simulate; /submit's
// response additionally carries a non-empty TxHash.
type PlanResponse struct {
	RoundID string `json:"roundId"`
	Rounds  int    `json:"rounds"`
	Items   int    `json:"discoveredItems"`
	TxHash  string `json:"txHash,omitempty"`
}

// StatusResponse answers GET /status/:roundID.
type StatusResponse struct {
	RoundID string `json:"roundId"`
	Found   bool   `json:"found"`
	Rounds  int    `json:"rounds"`
	Items   int    `json:"discoveredItems"`
	TxHash  string `json:"txHash,omitempty"`
}
