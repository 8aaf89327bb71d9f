// Package stc implements the State-Transition Commitment Core: the
// single-threaded ledger that owns l2_root, l2_block_number, the
// registered/responses maps and the SenderProxyL1 deployment registry
// (spec §4.1–§4.2). Every mutating entry point funnels through a
// reentrancy guard that spans the outermost call, exactly as spec §5
// requires, while still permitting the expected nested callback from an
// outgoing call back into HandleIncomingCall.
package stc

import (
	"context"
	"sync"
	"time"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/metrics"
	"github.com/nativerollup/bridge/internal/proofverifier"
	"github.com/nativerollup/bridge/internal/senderproxy"
)

// ctxKey is an unexported type so the reentrancy marker can't collide
// with a context value set by a caller.
type ctxKey struct{}

var insideOuterCallKey ctxKey

// STC is the commitment core. Outer calls are serialized by callMu;
// Unregister takes only mu, and read accessors take a shared RLock so RPC
// view functions never block on an in-flight outer call for longer than
// it takes to copy a root.
type STC struct {
	callMu sync.Mutex // held for the duration of exactly one outer call
	mu     sync.RWMutex

	l2Root        chain.Hash32
	l2BlockNumber uint64

	registered   map[chain.Hash32]bool
	responses    map[chain.Hash32]*chain.IncomingCallResponse
	registeredAt map[chain.Hash32]time.Time

	registry  *senderproxy.L1Registry
	gateway   *senderproxy.Gateway
	verifiers *proofverifier.Registry
	bus       *chain.EventBus

	nextLogIndex uint
}

// Config wires an STC instance to its collaborators. GenesisRoot is the
// l2_root value before any block has been processed (spec §4.1). Gateway
// is optional here because of the inherent wiring cycle — the gateway's
// IncomingCallHandler is this same STC instance — and may be supplied
// afterwards via SetGateway.
type Config struct {
	GenesisRoot chain.Hash32
	Registry    *senderproxy.L1Registry
	Gateway     *senderproxy.Gateway
	Verifiers   *proofverifier.Registry
	Bus         *chain.EventBus
}

// New constructs an STC instance at genesis.
func New(cfg Config) *STC {
	return &STC{
		l2Root:     cfg.GenesisRoot,
		registered:   make(map[chain.Hash32]bool),
		responses:    make(map[chain.Hash32]*chain.IncomingCallResponse),
		registeredAt: make(map[chain.Hash32]time.Time),
		registry:   cfg.Registry,
		gateway:    cfg.Gateway,
		verifiers:  cfg.Verifiers,
		bus:        cfg.Bus,
	}
}

// SetGateway completes construction when the gateway could only be built
// after STC itself, since the gateway's IncomingCallHandler is this STC.
func (s *STC) SetGateway(gw *senderproxy.Gateway) { s.gateway = gw }

// L2Root returns the current committed state root.
func (s *STC) L2Root() chain.Hash32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.l2Root
}

// L2BlockNumber returns the number of the last processed block.
func (s *STC) L2BlockNumber() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.l2BlockNumber
}

// IsRegistered reports whether a response exists for key.
func (s *STC) IsRegistered(key chain.Hash32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registered[key]
}

// Unregister forcibly drops a pre-registered response without
// consuming it through HandleIncomingCall, for operator recovery from
// a bad registration (SPEC_FULL §D.1). It reports whether key was
// actually registered.
func (s *STC) Unregister(key chain.Hash32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.registered[key] {
		return false
	}
	delete(s.registered, key)
	delete(s.registeredAt, key)
	delete(s.responses, key)
	return true
}

// enterOuter acquires the reentrancy guard for a fresh outer call. It
// must never be invoked on a goroutine that already holds callMu for the
// in-flight call — callers distinguish "fresh" vs "nested" using the
// context marker set by withNestedMarker.
func (s *STC) enterOuter(ctx context.Context) (release func(), err error) {
	if ctx.Value(insideOuterCallKey) != nil {
		// We're being invoked as a synchronous callback from within the
		// call that already owns callMu (the expected outgoing-call ->
		// handle_incoming_call path, spec §5). No new lock is taken.
		return func() {}, nil
	}
	if !s.callMu.TryLock() {
		return nil, &ErrReentrancy{}
	}
	return s.callMu.Unlock, nil
}

func withNestedMarker(ctx context.Context) context.Context {
	return context.WithValue(ctx, insideOuterCallKey, true)
}

// ProcessL2Block commits one L2 block (spec §4.1, process_l2_block).
// prevRoot must equal the currently committed root; the proof must
// verify under scheme against the declared transition; every declared
// outgoing call is then dispatched in order through the gateway, each
// checked against its expected result and post-call state hash, and
// l2_root is then set to finalRoot.
//
// l2_root is advanced to postExecutionRoot before the first outgoing call
// dispatches; if any step fails, l2_root is put back to prevRoot. The new
// block number and the block event are applied only after every check
// above has passed.
func (s *STC) ProcessL2Block(
	ctx context.Context,
	scheme proofverifier.Scheme,
	prevRoot chain.Hash32,
	callData chain.Bytes,
	postExecutionRoot chain.Hash32,
	outgoingCalls []chain.OutgoingCall,
	expectedResults []chain.Bytes,
	finalRoot chain.Hash32,
	proof chain.Bytes,
) error {
	release, err := s.enterOuter(ctx)
	if err != nil {
		return err
	}
	defer release()

	if prevRoot != s.L2Root() {
		return &ErrInvalidPrev{Expected: s.L2Root(), Got: prevRoot}
	}

	verifier, err := s.verifiers.Get(scheme)
	if err != nil {
		return err
	}
	ok, err := verifier.Verify(ctx, proofverifier.Transition{
		PrevRoot:        prevRoot,
		Input:           callData,
		PostRoot:        postExecutionRoot,
		OutgoingCalls:   outgoingCalls,
		ExpectedResults: expectedResults,
		FinalRoot:       finalRoot,
	}, proof)
	if err != nil {
		return err
	}
	if !ok {
		return &ErrProofInvalid{Scheme: string(scheme)}
	}

	results, _, err := s.runOutgoingCalls(ctx, postExecutionRoot, outgoingCalls, expectedResults)
	if err != nil {
		s.mu.Lock()
		s.l2Root = prevRoot
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	blockNumber := s.l2BlockNumber + 1
	s.l2Root = finalRoot
	s.l2BlockNumber = blockNumber
	s.mu.Unlock()
	metrics.STCL2BlockNumber.Set(float64(blockNumber))

	s.bus.Publish(chain.L2BlockProcessedEvent{
		Position:            chain.LogPosition{BlockNumber: blockNumber, LogIndex: s.takeLogIndex()},
		BlockNumber:         blockNumber,
		PrevRoot:            prevRoot,
		NewRoot:             finalRoot,
		CallData:            callData,
		OutgoingCalls:       outgoingCalls,
		OutgoingCallResults: results,
	})
	return nil
}

// runOutgoingCalls dispatches each declared outgoing call through the
// gateway in order, checking the result hash and the post-call state
// hash the caller declared for that call, and returns the root reached
// after the last call (or postExecutionRoot if there are none).
func (s *STC) runOutgoingCalls(
	ctx context.Context,
	postExecutionRoot chain.Hash32,
	calls []chain.OutgoingCall,
	expectedResults []chain.Bytes,
) ([]chain.Bytes, chain.Hash32, error) {
	nested := withNestedMarker(ctx)
	results := make([]chain.Bytes, len(calls))

	// l2_root must already reflect postExecutionRoot before the first
	// outgoing call dispatches, so a reentrant handle_incoming_call
	// triggered by that call (or its own ResponseKey lookup) sees the
	// advanced root rather than the pre-block one.
	s.mu.Lock()
	s.l2Root = postExecutionRoot
	s.mu.Unlock()

	root := postExecutionRoot
	for i, call := range calls {
		result, success, err := s.gateway.Execute(nested, call.From, call.Target, call.Value, call.Gas, call.Data)
		if err != nil {
			return nil, chain.Hash32{}, &ErrOutgoingCallFailed{Index: i, Cause: err}
		}
		if !success {
			return nil, chain.Hash32{}, &ErrOutgoingCallFailed{Index: i}
		}

		if chain.BytesHash(result) != chain.BytesHash(expectedResults[i]) {
			return nil, chain.Hash32{}, &ErrUnexpectedCallResult{
				Index:    i,
				Expected: chain.BytesHash(expectedResults[i]),
				Actual:   chain.BytesHash(result),
			}
		}

		root = s.L2Root()
		if root != call.PostCallStateHash {
			return nil, chain.Hash32{}, &ErrUnexpectedPostCallState{
				Index:    i,
				Expected: call.PostCallStateHash,
				Actual:   root,
			}
		}

		s.mu.Lock()
		s.l2Root = call.PostCallStateHash
		s.mu.Unlock()
		results[i] = result
	}
	return results, root, nil
}

// RegisterIncomingCall pre-announces the response STC must give the next
// time l1Caller (via the proxy) calls l2Address with callData against
// state stateHash (spec §4.1, register_incoming_call). The proof binds
// the response to the same Transition digest shape ProcessL2Block uses,
// with Input set to callData and PostRoot/PrevRoot both set to
// stateHash — the commitment is "this response is correct for this
// exact (l2_address, state, call_data)", not a block-to-block transition.
func (s *STC) RegisterIncomingCall(
	ctx context.Context,
	scheme proofverifier.Scheme,
	l2Address chain.Address,
	stateHash chain.Hash32,
	callData chain.Bytes,
	response *chain.IncomingCallResponse,
	proof chain.Bytes,
) error {
	release, err := s.enterOuter(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := response.Validate(); err != nil {
		return err
	}

	key := chain.ResponseKey(l2Address, stateHash, callData)

	s.mu.RLock()
	already := s.registered[key]
	s.mu.RUnlock()
	if already {
		return &ErrAlreadyRegistered{Key: key}
	}

	verifier, verr := s.verifiers.Get(scheme)
	if verr != nil {
		return verr
	}
	ok, verr := verifier.Verify(ctx, proofverifier.Transition{
		PrevRoot:        stateHash,
		Input:           callData,
		PostRoot:        stateHash,
		OutgoingCalls:   response.OutgoingCalls,
		ExpectedResults: response.ExpectedResults,
		FinalRoot:       response.FinalStateHash,
	}, proof)
	if verr != nil {
		return verr
	}
	if !ok {
		return &ErrProofInvalid{Scheme: string(scheme)}
	}

	s.mu.Lock()
	s.registered[key] = true
	s.responses[key] = response
	s.registeredAt[key] = time.Now()
	s.mu.Unlock()
	metrics.STCRegisteredResponsesTotal.Inc()

	s.bus.Publish(chain.IncomingCallRegisteredEvent{
		Position:     chain.LogPosition{BlockNumber: s.L2BlockNumber(), LogIndex: s.takeLogIndex()},
		L2Address:    l2Address,
		StateHash:    stateHash,
		CallDataHash: chain.BytesHash(callData),
		ResponseKey:  key,
	})
	return nil
}

// HandleIncomingCall consumes the pre-registered response for
// (l2Address, current l2_root, callData), dispatches its declared
// outgoing calls (spec §4.1, handle_incoming_call), and returns the
// response's return value. caller must be the deterministic
// SenderProxyL1 address for l2Address — anyone else is rejected with
// ErrOnlyProxy before any state is touched. A response is consumed
// at most once: a second call with the same key (because the root has
// not moved) returns ErrNotRegistered.
func (s *STC) HandleIncomingCall(
	ctx context.Context,
	caller, l2Address, l1Caller chain.Address,
	value *chain.Value,
	callData chain.Bytes,
) (chain.Bytes, error) {
	release, err := s.enterOuter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	expectedProxy := s.registry.AddressFor(l2Address)
	if caller != expectedProxy {
		return nil, &ErrOnlyProxy{L2Address: l2Address}
	}

	root := s.L2Root()
	key := chain.ResponseKey(l2Address, root, callData)

	s.mu.Lock()
	response, ok := s.responses[key]
	var committedAt time.Time
	if ok {
		committedAt = s.registeredAt[key]
		delete(s.responses, key)
		delete(s.registered, key)
		delete(s.registeredAt, key)
	}
	s.mu.Unlock()
	if !ok {
		return nil, &ErrNotRegistered{Key: key}
	}
	if !committedAt.IsZero() {
		metrics.STCCommitLatencySeconds.Observe(time.Since(committedAt).Seconds())
	}

	results, _, err := s.runOutgoingCalls(ctx, response.PreOutgoingStateHash, response.OutgoingCalls, response.ExpectedResults)
	if err != nil {
		// Put back the root and the consumed response.
		s.mu.Lock()
		s.l2Root = root
		s.registered[key] = true
		s.responses[key] = response
		s.registeredAt[key] = committedAt
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.l2Root = response.FinalStateHash
	s.mu.Unlock()

	s.bus.Publish(chain.IncomingCallHandledEvent{
		Position:            chain.LogPosition{BlockNumber: s.L2BlockNumber(), LogIndex: s.takeLogIndex()},
		L2Address:           l2Address,
		L1Caller:            l1Caller,
		PrevRoot:            root,
		CallData:            callData,
		Value:               value,
		OutgoingCalls:       response.OutgoingCalls,
		OutgoingCallResults: results,
		FinalStateHash:      response.FinalStateHash,
	})
	return response.ReturnValue, nil
}

func (s *STC) takeLogIndex() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.nextLogIndex
	s.nextLogIndex++
	return idx
}
