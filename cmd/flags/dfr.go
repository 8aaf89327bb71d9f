package flags

import (
	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/dfr"
)

const dfrCategory = "DFR"

var (
	DfrGenesisRoot = &cli.StringFlag{
		Name:     "dfr.genesisRoot",
		Usage:    "Hex-encoded l2_root DFR replays from at block zero; must match stc.genesisRoot",
		Required: true,
		Category: dfrCategory,
		EnvVars:  []string{"DFR_GENESIS_ROOT"},
	}
	DfrRPCListenAddr = &cli.StringFlag{
		Name:     "dfr.rpcListenAddr",
		Usage:    "Listening address for DFR's dfr_ JSON-RPC namespace",
		Value:    "0.0.0.0:8745",
		Category: dfrCategory,
		EnvVars:  []string{"DFR_RPC_LISTEN_ADDR"},
	}
	DfrL2SenderProxyFactory = &cli.StringFlag{
		Name:     "dfr.l2SenderProxyFactory",
		Usage:    "L2-side factory address SenderProxyL2 addresses are computed against",
		Required: true,
		Category: dfrCategory,
		EnvVars:  []string{"DFR_L2_SENDER_PROXY_FACTORY"},
	}
	DfrL2SenderProxyInitCode = &cli.StringFlag{
		Name:     "dfr.l2SenderProxyInitCode",
		Usage:    "Hex-encoded CREATE2 init code for SenderProxyL2 deployments",
		Required: true,
		Category: dfrCategory,
		EnvVars:  []string{"DFR_L2_SENDER_PROXY_INIT_CODE"},
	}
)

// DfrFlags are the full flag set for cmd/dfr, merging the package-local
// backoff flags dfr.Config already declares with the ones specific to
// the binary itself.
var DfrFlags = MergeFlags(CommonFlags, []cli.Flag{
	DfrGenesisRoot,
	DfrRPCListenAddr,
	DfrL2SenderProxyFactory,
	DfrL2SenderProxyInitCode,
	dfr.BackOffMaxRetriesFlag,
	dfr.BackOffRetryIntervalFlag,
	dfr.IgnoreStateMismatchFlag,
})
