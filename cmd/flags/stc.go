package flags

import "github.com/urfave/cli/v2"

const stcCategory = "STC"

var (
	GenesisRoot = &cli.StringFlag{
		Name:     "stc.genesisRoot",
		Usage:    "Hex-encoded l2_root value before any block has been processed",
		Required: true,
		Category: stcCategory,
		EnvVars:  []string{"STC_GENESIS_ROOT"},
	}
	VerifierStrategy = &cli.StringFlag{
		Name:     "stc.verifierStrategy",
		Usage:    "Proof verification strategy: admin-sig or succinct-gnark",
		Value:    "admin-sig",
		Category: stcCategory,
		EnvVars:  []string{"STC_VERIFIER_STRATEGY"},
	}
	AdminSignerAddress = &cli.StringFlag{
		Name:     "stc.adminSignerAddress",
		Usage:    "Trusted signer address for the admin-sig proof verification strategy",
		Category: stcCategory,
		EnvVars:  []string{"STC_ADMIN_SIGNER_ADDRESS"},
	}
	DatabaseDSN = &cli.StringFlag{
		Name:     "stc.databaseDsn",
		Usage:    "MySQL DSN STC's store package uses to persist state, responses and sender proxies",
		Required: true,
		Category: stcCategory,
		EnvVars:  []string{"STC_DATABASE_DSN"},
	}
	RPCListenAddr = &cli.StringFlag{
		Name:     "stc.rpcListenAddr",
		Usage:    "Listening address for STC's stc_ JSON-RPC namespace",
		Value:    "0.0.0.0:8645",
		Category: stcCategory,
		EnvVars:  []string{"STC_RPC_LISTEN_ADDR"},
	}
	AdminListenAddr = &cli.StringFlag{
		Name:     "stc.adminListenAddr",
		Usage:    "Listening address for STC's admin HTTP surface",
		Value:    "0.0.0.0:8646",
		Category: stcCategory,
		EnvVars:  []string{"STC_ADMIN_LISTEN_ADDR"},
	}
	AdminJWTSecret = &cli.StringFlag{
		Name:     "stc.adminJwtSecret",
		Usage:    "HMAC secret gating STC's admin /unregister route",
		Required: true,
		Category: stcCategory,
		EnvVars:  []string{"STC_ADMIN_JWT_SECRET"},
	}
	L1SenderProxyInitCode = &cli.StringFlag{
		Name:     "stc.l1SenderProxyInitCode",
		Usage:    "Hex-encoded CREATE2 init code for SenderProxyL1 deployments",
		Required: true,
		Category: stcCategory,
		EnvVars:  []string{"STC_L1_SENDER_PROXY_INIT_CODE"},
	}
	ContractAddress = &cli.StringFlag{
		Name:     "stc.contractAddress",
		Usage:    "STC's own L1 address, the CREATE2 deployer every SenderProxyL1 is computed against",
		Required: true,
		Category: stcCategory,
		EnvVars:  []string{"STC_CONTRACT_ADDRESS"},
	}
	SuccinctVerifyingKeyPath = &cli.StringFlag{
		Name:     "stc.succinctVerifyingKeyPath",
		Usage:    "Path to the groth16 verifying key, required when verifierStrategy is succinct-gnark",
		Category: stcCategory,
		EnvVars:  []string{"STC_SUCCINCT_VERIFYING_KEY_PATH"},
	}
)

// StcFlags are the full flag set for cmd/stc.
var StcFlags = MergeFlags(CommonFlags, []cli.Flag{
	GenesisRoot,
	VerifierStrategy,
	AdminSignerAddress,
	DatabaseDSN,
	RPCListenAddr,
	AdminListenAddr,
	AdminJWTSecret,
	L1SenderProxyInitCode,
	ContractAddress,
	SuccinctVerifyingKeyPath,
})
