package stc

import (
	"fmt"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/proofverifier"
	"github.com/nativerollup/bridge/internal/stc"
	"github.com/nativerollup/bridge/cmd/flags"
)

// Config is everything InitFromCli needs to construct an STC instance
// and its two RPC surfaces, the same plain-struct-populated-from-flags
// shape dfr.Config uses.
type Config struct {
	L1RPCUrl    string
	GenesisRoot chain.Hash32

	VerifierStrategy         string
	AdminSignerAddress       chain.Address
	SuccinctVerifyingKeyPath string

	DatabaseDSN   string
	RPCListenAddr string

	AdminListenAddr string
	AdminJWTSecret  []byte

	ContractAddress       chain.Address
	L1SenderProxyInitCode chain.Bytes
}

// NewConfigFromCliContext builds a Config from parsed flags.
func NewConfigFromCliContext(c *cli.Context) (*Config, error) {
	genesisRoot, err := parseHash32(c.String(flags.GenesisRoot.Name))
	if err != nil {
		return nil, fmt.Errorf("stc.genesisRoot: %w", err)
	}
	initCode, err := hexutil.Decode(c.String(flags.L1SenderProxyInitCode.Name))
	if err != nil {
		return nil, fmt.Errorf("stc.l1SenderProxyInitCode: %w", err)
	}

	cfg := &Config{
		L1RPCUrl:                 c.String(flags.L1RPCUrl.Name),
		GenesisRoot:              genesisRoot,
		VerifierStrategy:         c.String(flags.VerifierStrategy.Name),
		SuccinctVerifyingKeyPath: c.String(flags.SuccinctVerifyingKeyPath.Name),
		DatabaseDSN:              c.String(flags.DatabaseDSN.Name),
		RPCListenAddr:            c.String(flags.RPCListenAddr.Name),
		AdminListenAddr:          c.String(flags.AdminListenAddr.Name),
		AdminJWTSecret:           []byte(c.String(flags.AdminJWTSecret.Name)),
		ContractAddress:          common.HexToAddress(c.String(flags.ContractAddress.Name)),
		L1SenderProxyInitCode:    initCode,
	}
	if addr := c.String(flags.AdminSignerAddress.Name); addr != "" {
		cfg.AdminSignerAddress = common.HexToAddress(addr)
	}
	return cfg, nil
}

func parseHash32(s string) (chain.Hash32, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return chain.Hash32{}, err
	}
	return chain.Hash32(common.BytesToHash(b)), nil
}

// buildVerifierRegistry resolves cfg.VerifierStrategy into the
// proofverifier.Registry STC verifies incoming transitions against.
func buildVerifierRegistry(cfg *Config) (*proofverifier.Registry, error) {
	switch proofverifier.Scheme(cfg.VerifierStrategy) {
	case proofverifier.SchemeAdminSignature:
		return proofverifier.NewRegistry(proofverifier.NewAdminSignatureVerifier(cfg.AdminSignerAddress)), nil
	case proofverifier.SchemeSuccinct:
		if cfg.SuccinctVerifyingKeyPath == "" {
			return nil, fmt.Errorf("stc: succinct-gnark strategy requires stc.succinctVerifyingKeyPath")
		}
		f, err := os.Open(cfg.SuccinctVerifyingKeyPath)
		if err != nil {
			return nil, fmt.Errorf("open verifying key: %w", err)
		}
		defer f.Close()

		vk := groth16.NewVerifyingKey(ecc.BN254)
		if _, err := vk.ReadFrom(f); err != nil {
			return nil, fmt.Errorf("read verifying key: %w", err)
		}
		return proofverifier.NewRegistry(proofverifier.NewSuccinctVerifier(vk)), nil
	default:
		return nil, fmt.Errorf("stc: unknown verifier strategy %q", cfg.VerifierStrategy)
	}
}
