package l2env

import (
	"fmt"
	"sync"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/senderproxy"
)

// Environment is DFR's local view of L2 state, rebuilt solely by
// replaying L1 events in (block_number, log_index) order (spec §4.3).
// Nothing here is ever written except in response to an event DFR has
// already validated continues the chain from the root it currently
// holds — so two DFR instances fed the same L1 event stream always reach
// byte-identical state (spec §8, "Replay idempotence").
type Environment struct {
	mu sync.Mutex

	genesis     GenesisAddresses
	stateRoot   chain.Hash32
	blockNumber uint64
	lastPos     chain.LogPosition
	havePos     bool

	l1ProxiesDeployed map[chain.Address]chain.Address // l2_address -> SenderProxyL1 address, mirrored from STC
	registeredKeys    map[chain.Hash32]bool            // mirrors STC's `registered` for local simulation

	l2Registry *senderproxy.L2Registry // DFR-owned SenderProxyL2 cache (proxy_cache)
}

// New builds the environment at genesis: stateRoot is the same genesis
// root STC starts from, and the two singleton addresses are computed,
// never read from a config file (spec §4.3's determinism requirement).
func New(genesisRoot chain.Hash32, l2Registry *senderproxy.L2Registry) *Environment {
	return &Environment{
		genesis:           ComputeGenesisAddresses(),
		stateRoot:         genesisRoot,
		l1ProxiesDeployed: make(map[chain.Address]chain.Address),
		registeredKeys:    make(map[chain.Hash32]bool),
		l2Registry:        l2Registry,
	}
}

// Genesis returns the two deterministic genesis addresses.
func (e *Environment) Genesis() GenesisAddresses { return e.genesis }

// StateRoot returns the root DFR currently believes is canonical.
func (e *Environment) StateRoot() chain.Hash32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateRoot
}

// BlockNumber returns the last L2 block number DFR has replayed.
func (e *Environment) BlockNumber() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.blockNumber
}

// ErrOutOfOrder is returned by Apply when an event's LogPosition is not
// strictly greater than the last one applied (spec §5, "Ordering
// guarantees": events are never reordered or replayed out of sequence).
var ErrOutOfOrder = fmt.Errorf("l2env: event out of order")

// ErrChainMismatch is returned when an event's declared prev-root does
// not match DFR's current state root — the one condition that means DFR
// has diverged from STC and must stop advancing (spec §4.3 step 4,
// "Divergence detection").
type ErrChainMismatch struct{ Expected, Got chain.Hash32 }

func (e *ErrChainMismatch) Error() string {
	return fmt.Sprintf("l2env: chain mismatch: expected root %x, event declares %x", e.Expected, e.Got)
}

// Apply replays a single StateEvent, advancing stateRoot/blockNumber or
// updating the mirrored bookkeeping maps, depending on its kind. Apply
// never partially applies an event: a rejected event leaves the
// environment exactly as it was before the call.
func (e *Environment) Apply(ev chain.StateEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.havePos && !e.lastPos.Less(ev.Pos()) {
		return ErrOutOfOrder
	}

	switch v := ev.(type) {
	case chain.L2BlockProcessedEvent:
		if v.PrevRoot != e.stateRoot {
			return &ErrChainMismatch{Expected: e.stateRoot, Got: v.PrevRoot}
		}
		e.stateRoot = v.NewRoot
		e.blockNumber = v.BlockNumber

	case chain.IncomingCallHandledEvent:
		if v.PrevRoot != e.stateRoot {
			return &ErrChainMismatch{Expected: e.stateRoot, Got: v.PrevRoot}
		}
		e.stateRoot = v.FinalStateHash
		key := chain.ResponseKey(v.L2Address, v.PrevRoot, v.CallData)
		delete(e.registeredKeys, key)

	case chain.L2SenderProxyDeployedEvent:
		e.l1ProxiesDeployed[v.L2Address] = v.ProxyAddress

	case chain.IncomingCallRegisteredEvent:
		e.registeredKeys[v.ResponseKey] = true

	default:
		return fmt.Errorf("l2env: unknown event type %T", ev)
	}

	e.lastPos = ev.Pos()
	e.havePos = true
	return nil
}

// ApplySpeculative advances stateRoot the same way Apply's
// IncomingCallHandledEvent/L2BlockProcessedEvent cases do, but without
// the LogPosition ordering check against the real replay stream. No code
// in this module calls it: dfr.Driver's simulate and execute paths leave
// stateRoot unchanged, and replayed events go through the ordinary Apply
// path.
func (e *Environment) ApplySpeculative(prevRoot, newRoot chain.Hash32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if prevRoot != e.stateRoot {
		return &ErrChainMismatch{Expected: e.stateRoot, Got: prevRoot}
	}
	e.stateRoot = newRoot
	return nil
}

// IsProxyDeployed mirrors STC's SenderProxyL1 deployment bookkeeping, for
// DFR's outgoing-call discovery and simulation logic.
func (e *Environment) IsProxyDeployed(l2Address chain.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.l1ProxiesDeployed[l2Address]
	return ok
}

// IsRegistered mirrors STC's `registered` map for local simulation
// without a round trip to STC.
func (e *Environment) IsRegistered(key chain.Hash32) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registeredKeys[key]
}

// L2SenderProxyFor resolves (and, if unseen, caches) the deterministic
// SenderProxyL2 address for l1Address via the wrapped L2Registry.
func (e *Environment) L2SenderProxyFor(l1Address chain.Address) chain.Address {
	return e.l2Registry.Ensure(l1Address)
}
