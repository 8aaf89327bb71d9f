// Package l2env is DFR's local execution environment: the byte-identical
// L2 state a replayer reconstructs purely from L1 events, with the two
// genesis singletons (spec §4.3) and the snapshot/revert machinery
// simulation needs.
package l2env

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/nativerollup/bridge/bindings/encoding"
	"github.com/nativerollup/bridge/internal/chain"
)

// GenesisAddresses derives the two fixed-nonce contract addresses every
// DFR instance computes identically at genesis, without reading them
// from anywhere: L2CallRegistry at nonce 0 and SenderProxyL2Factory at
// nonce 1, both deployed by the same system address (spec §4.3).
type GenesisAddresses struct {
	CallRegistry        chain.Address
	SenderProxyL2Factory chain.Address
}

// ComputeGenesisAddresses applies the standard CREATE address formula
// (keccak(rlp(deployer, nonce))[12:]) to the two fixed genesis nonces.
func ComputeGenesisAddresses() GenesisAddresses {
	return GenesisAddresses{
		CallRegistry:         crypto.CreateAddress(encoding.GenesisSystemAddress, encoding.GenesisCallRegistryNonce),
		SenderProxyL2Factory: crypto.CreateAddress(encoding.GenesisSystemAddress, encoding.GenesisSenderProxyFactoryNonce),
	}
}
