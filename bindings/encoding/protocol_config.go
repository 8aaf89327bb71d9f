// Package encoding holds the fixed protocol constants every component
// agrees on without needing to ask STC at runtime, the same way the
// teacher's bindings/encoding package centralizes protocol_config.go's
// chain-ID-keyed constants.
package encoding

import "github.com/nativerollup/bridge/internal/chain"

// DiscoveryRoundLimit bounds BP's iterative discovery loop (spec §4.4):
// after this many rounds without reaching a fixed point, BP gives up and
// reports a failed plan rather than looping forever.
const DiscoveryRoundLimit = 20

// MinCommitAge and MaxCommitAge bound the Commit-Reveal Wrapper's reveal
// window (spec §4.5): a reveal before MinCommitAge blocks have elapsed is
// rejected as front-runnable, and one after MaxCommitAge is rejected as
// stale.
const (
	MinCommitAge = 1
	MaxCommitAge = 256
)

// GenesisCallRegistryNonce and GenesisSenderProxyFactoryNonce are the
// deployer nonces DFR uses to compute the deterministic genesis
// addresses of L2CallRegistry and SenderProxyL2Factory (spec §4.3):
// both are deployed by the same system address, in this fixed order, at
// genesis, so every DFR instance replaying from block zero derives the
// same two addresses without needing to read them from anywhere.
const (
	GenesisCallRegistryNonce       = 0
	GenesisSenderProxyFactoryNonce = 1
)

// GenesisSystemAddress is the fixed deployer of both genesis singletons.
var GenesisSystemAddress = chain.Address{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe}
