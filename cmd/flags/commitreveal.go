package flags

import (
	"time"

	"github.com/urfave/cli/v2"
)

const commitRevealCategory = "COMMIT_REVEAL"

var (
	CommitRevealListenAddr = &cli.StringFlag{
		Name:     "commitreveal.listenAddr",
		Usage:    "Listening address for the optional commit-reveal wrapper's HTTP surface",
		Value:    "0.0.0.0:8090",
		Category: commitRevealCategory,
		EnvVars:  []string{"COMMIT_REVEAL_LISTEN_ADDR"},
	}
	CommitRevealMinAge = &cli.Uint64Flag{
		Name:     "commitreveal.minAge",
		Usage:    "Minimum blocks between commit and reveal; 0 uses encoding.MinCommitAge",
		Category: commitRevealCategory,
		EnvVars:  []string{"COMMIT_REVEAL_MIN_AGE"},
	}
	CommitRevealMaxAge = &cli.Uint64Flag{
		Name:     "commitreveal.maxAge",
		Usage:    "Maximum blocks between commit and reveal; 0 uses encoding.MaxCommitAge",
		Category: commitRevealCategory,
		EnvVars:  []string{"COMMIT_REVEAL_MAX_AGE"},
	}
	CommitRevealStcRPCUrl = &cli.StringFlag{
		Name:     "commitreveal.stcRpcUrl",
		Usage:    "JSON-RPC URL of the STC instance reveals register incoming calls against",
		Required: true,
		Category: commitRevealCategory,
		EnvVars:  []string{"COMMIT_REVEAL_STC_RPC_URL"},
	}
	CommitRevealPollInterval = &cli.DurationFlag{
		Name:     "commitreveal.pollInterval",
		Usage:    "How often to poll L1 for the current block number",
		Value:    12 * time.Second,
		Category: commitRevealCategory,
		EnvVars:  []string{"COMMIT_REVEAL_POLL_INTERVAL"},
	}
)

// CommitRevealFlags are the full flag set for cmd/commitreveal.
var CommitRevealFlags = MergeFlags(CommonFlags, []cli.Flag{
	CommitRevealListenAddr,
	CommitRevealMinAge,
	CommitRevealMaxAge,
	CommitRevealStcRPCUrl,
	CommitRevealPollInterval,
})
