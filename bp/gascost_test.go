package bp_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/bp"
)

func TestGasCostPolicy_Estimate(t *testing.T) {
	policy := bp.NewGasCostPolicy(decimal.NewFromInt(10))
	plan := &bp.Plan{}
	// Plan items can't be constructed outside package bp, so only the
	// zero-item case is checked here: an empty plan costs nothing.
	require.True(t, policy.Estimate(plan).IsZero())
}
