package dfr

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/internal/chain"
)

// Config mirrors the teacher's prover.Config shape: a plain struct
// populated either from an urfave/cli context or directly by a caller
// embedding this package.
type Config struct {
	GenesisRoot          chain.Hash32
	BackOffMaxRetries    uint64
	BackOffRetryInterval time.Duration
	IgnoreStateMismatch  bool
}

var (
	// BackOffMaxRetriesFlag and BackOffRetryIntervalFlag follow the
	// teacher's retry-flag naming exactly (cmd/flags/prover.go names
	// them identically for the prover binary).
	BackOffMaxRetriesFlag = &cli.Uint64Flag{
		Name:    "backoff.maxRetries",
		Usage:   "Max retry times for the backoff package",
		Value:   5,
		EnvVars: []string{"BACKOFF_MAX_RETRIES"},
	}
	BackOffRetryIntervalFlag = &cli.DurationFlag{
		Name:    "backoff.retryInterval",
		Usage:   "Retry interval for the backoff package",
		Value:   12 * time.Second,
		EnvVars: []string{"BACKOFF_RETRY_INTERVAL"},
	}
	// IgnoreStateMismatchFlag is the operator override spec §4.3 step 2
	// and §7 describe: by default a StateMismatch halts replay, but a
	// developer may opt into logging and continuing instead. Off by
	// default — this is a developer affordance only, never the default
	// posture for a real deployment.
	IgnoreStateMismatchFlag = &cli.BoolFlag{
		Name:    "dfr.ignoreStateMismatch",
		Usage:   "Log and continue past a StateMismatch instead of halting replay (developer affordance only)",
		Value:   false,
		EnvVars: []string{"DFR_IGNORE_STATE_MISMATCH"},
	}
)

// NewConfigFromCliContext builds a Config from parsed flags, the same
// pattern prover.NewConfigFromCliContext follows.
func NewConfigFromCliContext(c *cli.Context) (*Config, error) {
	return &Config{
		BackOffMaxRetries:    c.Uint64(BackOffMaxRetriesFlag.Name),
		BackOffRetryInterval: c.Duration(BackOffRetryIntervalFlag.Name),
		IgnoreStateMismatch:  c.Bool(IgnoreStateMismatchFlag.Name),
	}, nil
}
