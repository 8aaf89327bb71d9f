package bp

import (
	"github.com/shopspring/decimal"
)

// GasCostPolicy documents and computes how BP attributes the gas of a
// discovered cross-chain call chain back to whoever originated it
// (SPEC_FULL §D.2). Every outgoing call STC dispatches is paid for out
// of the same L1 transaction that carries process_l2_block or
// handle_incoming_call. Estimate computes that total for a discovered
// Plan; no BP request path calls it, and neither the /simulate nor the
// /submit response carries a cost figure.
//
// The policy is flat and conservative: each discovered call is charged
// its declared Gas at the configured GasPriceWei, with no discount for
// calls that turn out to be no-ops. Refining this into a per-branch
// attribution (e.g. splitting cost between the L1 and L2 originators of
// a round-trip) is tracked as future work, not implemented here.
type GasCostPolicy struct {
	GasPriceWei decimal.Decimal
}

// NewGasCostPolicy builds a policy from a gas price in wei.
func NewGasCostPolicy(gasPriceWei decimal.Decimal) GasCostPolicy {
	return GasCostPolicy{GasPriceWei: gasPriceWei}
}

// Estimate sums gas across every discovered item's outgoing calls plus a
// flat per-item overhead for the register_incoming_call transaction
// itself, and converts to wei at the configured price.
func (p GasCostPolicy) Estimate(plan *Plan) decimal.Decimal {
	const registerOverheadGas = 45000

	total := decimal.Zero
	for _, item := range plan.Items {
		total = total.Add(decimal.NewFromInt(registerOverheadGas))
		for _, oc := range item.response.OutgoingCalls {
			total = total.Add(decimal.NewFromInt(int64(oc.Gas)))
		}
	}
	return total.Mul(p.GasPriceWei)
}
