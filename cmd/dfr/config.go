package dfr

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/cmd/flags"
	"github.com/nativerollup/bridge/dfr"
	"github.com/nativerollup/bridge/internal/chain"
)

// Config bundles dfr.Config with the binary-level settings
// dfr.NewConfigFromCliContext doesn't know about (the RPC listen
// address and the L2 sender proxy registry parameters live in cmd/flags,
// not in the dfr package itself).
type Config struct {
	*dfr.Config
	RPCListenAddr      string
	L2SenderProxyFactory chain.Address
	L2SenderProxyInitCode chain.Bytes
}

// NewConfigFromCliContext builds a Config, delegating the backoff
// fields to dfr.NewConfigFromCliContext and filling in the rest here.
func NewConfigFromCliContext(c *cli.Context) (*Config, error) {
	base, err := dfr.NewConfigFromCliContext(c)
	if err != nil {
		return nil, err
	}

	genesisRoot, err := hexutil.Decode(c.String(flags.DfrGenesisRoot.Name))
	if err != nil {
		return nil, fmt.Errorf("dfr.genesisRoot: %w", err)
	}
	base.GenesisRoot = chain.Hash32(common.BytesToHash(genesisRoot))

	initCode, err := hexutil.Decode(c.String(flags.DfrL2SenderProxyInitCode.Name))
	if err != nil {
		return nil, fmt.Errorf("dfr.l2SenderProxyInitCode: %w", err)
	}

	return &Config{
		Config:                base,
		RPCListenAddr:         c.String(flags.DfrRPCListenAddr.Name),
		L2SenderProxyFactory:  common.HexToAddress(c.String(flags.DfrL2SenderProxyFactory.Name)),
		L2SenderProxyInitCode: initCode,
	}, nil
}
