package flags

import "github.com/urfave/cli/v2"

const bpCategory = "BP"

var (
	BpListenAddr = &cli.StringFlag{
		Name:     "bp.listenAddr",
		Usage:    "Listening address for BP's /submit, /simulate and /status HTTP surface",
		Value:    "0.0.0.0:8080",
		Category: bpCategory,
		EnvVars:  []string{"BP_LISTEN_ADDR"},
	}
	BpDiscoveryRoundCap = &cli.IntFlag{
		Name:     "bp.discoveryRoundCap",
		Usage:    "Override encoding.DiscoveryRoundLimit; 0 uses the protocol default",
		Category: bpCategory,
		EnvVars:  []string{"BP_DISCOVERY_ROUND_CAP"},
	}
	BpProposerPrivKey = &cli.StringFlag{
		Name:     "bp.proposerPrivKey",
		Usage:    "Private key BP's transaction_builder uses to sign and send the triggering L1 transaction",
		Required: true,
		Category: bpCategory,
		EnvVars:  []string{"BP_PROPOSER_PRIV_KEY"},
	}
	BpVerifierStrategy = &cli.StringFlag{
		Name:     "bp.verifierStrategy",
		Usage:    "Proof verification strategy BP signs registrations for; BP's signer supports only admin-sig",
		Value:    "admin-sig",
		Category: bpCategory,
		EnvVars:  []string{"BP_VERIFIER_STRATEGY"},
	}
	BpDfrRPCUrl = &cli.StringFlag{
		Name:     "bp.dfrRpcUrl",
		Usage:    "URL of cmd/dfr's dfr_ JSON-RPC namespace",
		Required: true,
		Category: bpCategory,
		EnvVars:  []string{"BP_DFR_RPC_URL"},
	}
	BpStcRPCUrl = &cli.StringFlag{
		Name:     "bp.stcRpcUrl",
		Usage:    "URL of cmd/stc's stc_ JSON-RPC namespace",
		Required: true,
		Category: bpCategory,
		EnvVars:  []string{"BP_STC_RPC_URL"},
	}
	BpStcContractAddress = &cli.StringFlag{
		Name:     "bp.stcContractAddress",
		Usage:    "STC's L1 address, needed to recompute SenderProxyL1 addresses locally",
		Required: true,
		Category: bpCategory,
		EnvVars:  []string{"BP_STC_CONTRACT_ADDRESS"},
	}
	BpL1SenderProxyInitCode = &cli.StringFlag{
		Name:     "bp.l1SenderProxyInitCode",
		Usage:    "Hex-encoded CREATE2 init code for SenderProxyL1, must match stc.l1SenderProxyInitCode",
		Required: true,
		Category: bpCategory,
		EnvVars:  []string{"BP_L1_SENDER_PROXY_INIT_CODE"},
	}
)

// BpFlags are the full flag set for cmd/bp.
var BpFlags = MergeFlags(CommonFlags, []cli.Flag{
	BpListenAddr,
	BpDiscoveryRoundCap,
	BpProposerPrivKey,
	BpVerifierStrategy,
	BpDfrRPCUrl,
	BpStcRPCUrl,
	BpStcContractAddress,
	BpL1SenderProxyInitCode,
})
