// Package builder implements bp/httpserver.Broadcaster: once a Plan's
// discovered responses are all registered on STC, it builds and sends
// the L1 transaction that actually triggers them, reusing the teacher's
// op-service/txmgr.SimpleTxManager the same way
// proposer/transaction_builder/celestia.go and prover/prover.go build and
// send their own txmgr.TxCandidate values.
package builder

import (
	"context"
	"fmt"

	"github.com/ethereum-optimism/optimism/op-service/txmgr"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/nativerollup/bridge/bp"
	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/senderproxy"
)

// TxManager is the subset of txmgr.SimpleTxManager this builder depends
// on, narrowed to a testable interface the way prover.go's collaborators
// are narrowed elsewhere in this module.
type TxManager interface {
	Send(ctx context.Context, candidate txmgr.TxCandidate) (*types.Receipt, error)
}

// Builder sends a Plan's root request to L1, targeting the deterministic
// SenderProxyL1 address for the request's L2Address (spec §4.2): that
// proxy is what actually calls back into STC's HandleIncomingCall.
type Builder struct {
	txmgr    TxManager
	registry *senderproxy.L1Registry
}

// New wires a Builder to the live txmgr and the same L1Registry STC uses
// to resolve SenderProxyL1 addresses, so the address it sends to always
// matches the one STC.HandleIncomingCall checks the caller against.
func New(txmgr TxManager, registry *senderproxy.L1Registry) *Builder {
	return &Builder{txmgr: txmgr, registry: registry}
}

// Broadcast implements bp/httpserver.Broadcaster.
func (b *Builder) Broadcast(ctx context.Context, plan *bp.Plan) (string, error) {
	root := plan.Root()
	to := b.registry.AddressFor(root.L2Address)

	candidate := txmgr.TxCandidate{
		TxData:   root.CallData,
		To:       &to,
		GasLimit: root.Gas,
		Value:    root.Value.ToBig(),
	}

	receipt, err := b.txmgr.Send(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("builder: send plan %s: %w", plan.RoundID, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", &ErrTxReverted{RoundID: plan.RoundID, TxHash: chain.Hash32(receipt.TxHash)}
	}
	return receipt.TxHash.Hex(), nil
}

// ErrTxReverted is returned when the triggering L1 transaction lands but reverts.
type ErrTxReverted struct {
	RoundID string
	TxHash  chain.Hash32
}

func (e *ErrTxReverted) Error() string {
	return fmt.Sprintf("builder: transaction for round %s reverted: %s", e.RoundID, e.TxHash.Hex())
}
