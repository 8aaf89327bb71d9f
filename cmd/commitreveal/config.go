// Package commitreveal is the cmd/commitreveal entrypoint: it wires the
// Commit-Reveal Wrapper (spec §4.5) in front of a remote STC instance,
// driven through cmd/utils.SubcommandApplication the same way cmd/stc,
// cmd/dfr and cmd/bp are.
package commitreveal

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/cmd/flags"
)

// Config is everything InitFromCli needs to build a Wrapper and its
// HTTP surface.
type Config struct {
	L1RPCUrl  string
	StcRPCUrl string

	ListenAddr string

	MinAge uint64
	MaxAge uint64

	PollInterval time.Duration
}

// NewConfigFromCliContext builds a Config from parsed flags.
func NewConfigFromCliContext(c *cli.Context) (*Config, error) {
	return &Config{
		L1RPCUrl:     c.String(flags.L1RPCUrl.Name),
		StcRPCUrl:    c.String(flags.CommitRevealStcRPCUrl.Name),
		ListenAddr:   c.String(flags.CommitRevealListenAddr.Name),
		MinAge:       c.Uint64(flags.CommitRevealMinAge.Name),
		MaxAge:       c.Uint64(flags.CommitRevealMaxAge.Name),
		PollInterval: c.Duration(flags.CommitRevealPollInterval.Name),
	}, nil
}
