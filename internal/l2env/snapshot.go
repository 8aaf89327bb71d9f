package l2env

import "github.com/nativerollup/bridge/internal/chain"

// Snapshot is an opaque capture of everything Apply can mutate, used by
// DFR's simulate* RPCs to run a speculative call chain and then roll
// back without leaving any trace (spec §4.3, §5 "proxy_cache in DFR is
// partitioned by snapshot").
type Snapshot struct {
	stateRoot      chain.Hash32
	blockNumber    uint64
	lastPos        chain.LogPosition
	havePos        bool
	proxiesDeployed map[chain.Address]chain.Address
	registeredKeys  map[chain.Hash32]bool
	proxyCache      map[chain.Address]chain.Address
}

// Snapshot captures the current environment state.
func (e *Environment) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	proxies := make(map[chain.Address]chain.Address, len(e.l1ProxiesDeployed))
	for k, v := range e.l1ProxiesDeployed {
		proxies[k] = v
	}
	keys := make(map[chain.Hash32]bool, len(e.registeredKeys))
	for k, v := range e.registeredKeys {
		keys[k] = v
	}

	return Snapshot{
		stateRoot:       e.stateRoot,
		blockNumber:     e.blockNumber,
		lastPos:         e.lastPos,
		havePos:         e.havePos,
		proxiesDeployed: proxies,
		registeredKeys:  keys,
		proxyCache:      e.l2Registry.Snapshot(),
	}
}

// Revert restores the environment to a previously captured Snapshot,
// discarding every Apply call made since.
func (e *Environment) Revert(snap Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stateRoot = snap.stateRoot
	e.blockNumber = snap.blockNumber
	e.lastPos = snap.lastPos
	e.havePos = snap.havePos
	e.l1ProxiesDeployed = snap.proxiesDeployed
	e.registeredKeys = snap.registeredKeys
	e.l2Registry.Restore(snap.proxyCache)
}
