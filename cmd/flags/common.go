// Package flags collects the urfave/cli flags of this module's binaries
// (cmd/stc, cmd/dfr, cmd/bp, cmd/commitreveal). This file holds the ones
// shared by more than one binary, the same way
// blob-aggregator/cmd/flags/common.go centralizes its queue-connection
// flags for every blob-aggregator subcommand; each binary's own flags sit
// in their own file of this package (bp.go, stc.go, dfr.go,
// commitreveal.go), matching the per-package flag files
// taiko-client/cmd/flags keeps alongside this shared file. DFR's replay
// backoff flags are defined in package dfr itself (see
// dfr.BackOffMaxRetriesFlag).
package flags

import "github.com/urfave/cli/v2"

const (
	commonCategory = "COMMON"
)

var (
	L1RPCUrl = &cli.StringFlag{
		Name:     "l1.rpcUrl",
		Usage:    "RPC URL of the L1 host chain",
		Required: true,
		Category: commonCategory,
		EnvVars:  []string{"L1_RPC_URL"},
	}
	L2RPCUrl = &cli.StringFlag{
		Name:     "l2.rpcUrl",
		Usage:    "RPC URL of the L2 derived chain",
		Required: true,
		Category: commonCategory,
		EnvVars:  []string{"L2_RPC_URL"},
	}
	LogLevel = &cli.StringFlag{
		Name:     "log.level",
		Usage:    "Log level (trace, debug, info, warn, error, crit); not read by any binary in this module",
		Value:    "info",
		Category: commonCategory,
		EnvVars:  []string{"LOG_LEVEL"},
	}
	LogJSON = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "Write logs as JSON; not read by any binary in this module, which keep the default log handler",
		Category: commonCategory,
		EnvVars:  []string{"LOG_JSON"},
	}
	MetricsAddr = &cli.StringFlag{
		Name:     "metrics.addr",
		Usage:    "Listening address for a /metrics Prometheus endpoint; not read by any binary in this module",
		Value:    "0.0.0.0:6060",
		Category: commonCategory,
		EnvVars:  []string{"METRICS_ADDR"},
	}
)

// CommonFlags are required or defaulted on every binary in this module.
var CommonFlags = []cli.Flag{
	L1RPCUrl,
	L2RPCUrl,
	LogLevel,
	LogJSON,
	MetricsAddr,
}

// MergeFlags concatenates flag groups in declaration order, the same
// helper blob-aggregator/cmd/flags/common.go exposes.
func MergeFlags(groups ...[]cli.Flag) []cli.Flag {
	var merged []cli.Flag
	for _, group := range groups {
		merged = append(merged, group...)
	}
	return merged
}
