// Package senderproxy computes the CREATE2-deterministic proxy addresses
// spec §4.2/§6 requires and tracks which ones have actually been
// deployed on each side. The bit-exact salts are as specified:
//
//	SenderProxyL1 salt = keccak(SALT_PREFIX_L1, l2_address)
//	SenderProxyL2 salt = keccak(SALT_PREFIX_L2, l1_address)
package senderproxy

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nativerollup/bridge/internal/chain"
)

// l2ProxyCacheSize bounds DFR's proxy_cache (spec §5 "Shared resources").
// AddressFor is a pure CREATE2 computation, so an eviction only costs a
// cheap recompute on next access — never a correctness problem.
const l2ProxyCacheSize = 4096

// SaltPrefixL1 = keccak("NativeRollup.L2SenderProxy.v1"), bit-exact per
// spec §6.
var SaltPrefixL1 = chain.Keccak256Hash([]byte("NativeRollup.L2SenderProxy.v1"))

// SaltPrefixL2 = keccak("NativeRollup.L1SenderProxyL2.v1"), bit-exact per
// spec §6.
var SaltPrefixL2 = chain.Keccak256Hash([]byte("NativeRollup.L1SenderProxyL2.v1"))

// L1Salt returns the CREATE2 salt for the SenderProxyL1 of l2Address.
func L1Salt(l2Address chain.Address) chain.Hash32 {
	return chain.Keccak256Hash(SaltPrefixL1.Bytes(), l2Address.Bytes())
}

// L2Salt returns the CREATE2 salt for the SenderProxyL2 of l1Address.
func L2Salt(l1Address chain.Address) chain.Hash32 {
	return chain.Keccak256Hash(SaltPrefixL2.Bytes(), l1Address.Bytes())
}

// Create2Address is the standard CREATE2 address formula:
// keccak(0xff ++ deployer ++ salt ++ keccak(initCode))[12:].
func Create2Address(deployer chain.Address, salt chain.Hash32, initCode chain.Bytes) chain.Address {
	initCodeHash := chain.BytesHash(initCode)
	digest := chain.Keccak256Hash([]byte{0xff}, deployer.Bytes(), salt.Bytes(), initCodeHash.Bytes())
	var addr chain.Address
	copy(addr[:], digest.Bytes()[12:])
	return addr
}

// L1Registry resolves and tracks SenderProxyL1 addresses, one per L2
// address, all deployed from (and exclusively controlled by, spec §3
// "Ownership") a single STC deployer address.
//
// Address derivation is a pure function (spec §8, "Proxy determinism");
// this type additionally tracks *deployment* state, which is not pure —
// it is the one piece of mutable bookkeeping STC needs to decide whether
// to run the CREATE2 deploy step before calling execute.
type L1Registry struct {
	deployer chain.Address
	initCode chain.Bytes

	mu       sync.RWMutex
	deployed map[chain.Address]chain.Address // l2_address -> proxy_address
}

// NewL1Registry configures a registry for proxies deployed by deployer
// (the STC contract address) using the given CREATE2 init code.
func NewL1Registry(deployer chain.Address, initCode chain.Bytes) *L1Registry {
	return &L1Registry{
		deployer: deployer,
		initCode: initCode,
		deployed: make(map[chain.Address]chain.Address),
	}
}

// AddressFor returns the deterministic proxy address for l2Address,
// without regard to whether it has been deployed yet.
func (r *L1Registry) AddressFor(l2Address chain.Address) chain.Address {
	return Create2Address(r.deployer, L1Salt(l2Address), r.initCode)
}

// IsDeployed reports whether l2Address's proxy has already been deployed.
func (r *L1Registry) IsDeployed(l2Address chain.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.deployed[l2Address]
	return ok
}

// EnsureDeployed resolves l2Address's proxy address, recording it as
// deployed and reporting whether this call is the one that performed the
// (logical) deployment. STC's process_l2_block step 1 calls this before
// invoking execute; DFR's replay protocol calls the L2-side analogue
// before mining the block that depends on the registry write being
// visible.
func (r *L1Registry) EnsureDeployed(l2Address chain.Address) (proxy chain.Address, deployedNow bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.deployed[l2Address]; ok {
		return existing, false
	}

	proxy = r.AddressFor(l2Address)
	r.deployed[l2Address] = proxy
	return proxy, true
}

// L2Registry is the DFR-side mirror: one SenderProxyL2 per L1 address,
// produced by the SenderProxyL2Factory singleton (spec §4.3 genesis).
// DFR owns proxy_cache exclusively (spec §3 "Ownership"); this type
// implements that cache.
type L2Registry struct {
	factory  chain.Address
	initCode chain.Bytes

	mu    sync.RWMutex
	cache *lru.Cache[chain.Address, chain.Address] // l1_address -> proxy_address
}

// NewL2Registry configures a registry for proxies deployed by the
// SenderProxyL2Factory at factory using initCode.
func NewL2Registry(factory chain.Address, initCode chain.Bytes) *L2Registry {
	cache, err := lru.New[chain.Address, chain.Address](l2ProxyCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// l2ProxyCacheSize never is.
		panic(err)
	}
	return &L2Registry{
		factory:  factory,
		initCode: initCode,
		cache:    cache,
	}
}

// AddressFor returns the deterministic SenderProxyL2 address for l1Address.
func (r *L2Registry) AddressFor(l1Address chain.Address) chain.Address {
	return Create2Address(r.factory, L2Salt(l1Address), r.initCode)
}

// Get returns the cached proxy address for l1Address, if any.
func (r *L2Registry) Get(l1Address chain.Address) (chain.Address, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache.Get(l1Address)
}

// Ensure resolves and caches the proxy address for l1Address.
func (r *L2Registry) Ensure(l1Address chain.Address) chain.Address {
	r.mu.Lock()
	defer r.mu.Unlock()
	if addr, ok := r.cache.Get(l1Address); ok {
		return addr
	}
	addr := r.AddressFor(l1Address)
	r.cache.Add(l1Address, addr)
	return addr
}

// Snapshot returns a point-in-time copy of the cache for DFR's
// snapshot/revert machinery (spec §5 "Shared resources": "proxy_cache in
// DFR is partitioned by snapshot: each snapshot saves a shallow copy
// restored on revert").
func (r *L2Registry) Snapshot() map[chain.Address]chain.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make(map[chain.Address]chain.Address, r.cache.Len())
	for _, k := range r.cache.Keys() {
		if v, ok := r.cache.Peek(k); ok {
			cp[k] = v
		}
	}
	return cp
}

// Restore replaces the cache wholesale with a previously captured
// Snapshot, reverting any caching done during the simulation that is
// being rolled back.
func (r *L2Registry) Restore(snapshot map[chain.Address]chain.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Purge()
	for k, v := range snapshot {
		r.cache.Add(k, v)
	}
}
