package bp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nativerollup/bridge/bindings/encoding"
	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/metrics"
	"github.com/nativerollup/bridge/internal/proofverifier"
	"github.com/nativerollup/bridge/internal/stc"
)

func isAlreadyRegistered(err error) bool {
	var target *stc.ErrAlreadyRegistered
	return errors.As(err, &target)
}

// Planner runs the discovery loop spec §4.4 describes: starting from one
// requested incoming call, it repeatedly simulates, collects the nested
// incoming calls any discovered outgoing call would itself trigger, and
// stops either at a fixed point (nothing new discovered) or at
// encoding.DiscoveryRoundLimit rounds.
type Planner struct {
	dfr       Discoverer
	stc       Registrar
	l1sim     L1Simulator
	scheme    proofverifier.Scheme
	sign      ResponseSigner
	roundCap  int
}

// NewPlanner wires a Planner to its collaborators. roundCap overrides
// encoding.DiscoveryRoundLimit when non-zero, for tests that want a
// tighter bound.
func NewPlanner(dfr Discoverer, stc Registrar, l1sim L1Simulator, scheme proofverifier.Scheme, sign ResponseSigner, roundCap int) *Planner {
	if roundCap <= 0 {
		roundCap = encoding.DiscoveryRoundLimit
	}
	return &Planner{dfr: dfr, stc: stc, l1sim: l1sim, scheme: scheme, sign: sign, roundCap: roundCap}
}

// discovered pairs a request with the response BP simulated for it.
type discovered struct {
	req      IncomingCallRequest
	stateHash chain.Hash32
	response *chain.IncomingCallResponse
}

// Plan runs the discovery loop for a single entry request and returns
// every response that must be registered before root's transaction
// chain is safe to broadcast, plus the round id for observability.
type Plan struct {
	RoundID string
	Rounds  int
	Items   []discovered
}

// Root returns the original request that seeded discovery: the call a
// Broadcaster must actually submit to L1 once every discovered response
// is registered. It is always Items[0], since Discover appends round
// zero's single-element frontier before any nested request.
func (p *Plan) Root() IncomingCallRequest { return p.Items[0].req }

// ErrDiscoveryDidNotConverge is returned when the frontier is still
// non-empty after encoding.DiscoveryRoundLimit rounds (spec §4.4,
// discovery round cap).
var ErrDiscoveryDidNotConverge = fmt.Errorf("bp: discovery did not converge within round limit")

// Discover runs the bounded fixed-point search (spec §4.4 steps 1-3),
// without registering or broadcasting anything yet.
//
// Frontier items are walked strictly in order, threading a single
// simulated state forward: each item is keyed against the state left
// behind by the item walked immediately before it, and leaves behind
// its own response's FinalStateHash for the next one (spec §4.4 step
// 4b, "set state := new_state_root"; restated by the read-write-read
// worked example, spec §8 scenario 3). This must not be parallelized
// across frontier items — each one's ResponseKey depends on the
// previous one's outcome. Only the sibling outgoing calls nested
// within one item's own response are independent of each other (each
// is a read-only speculative eth_call) and are simulated concurrently.
func (p *Planner) Discover(ctx context.Context, root IncomingCallRequest) (*Plan, error) {
	start := time.Now()
	defer func() { metrics.BPPlanDurationSeconds.Observe(time.Since(start).Seconds()) }()

	plan := &Plan{RoundID: uuid.NewString()}
	frontier := []IncomingCallRequest{root}
	state := p.stc.L2Root()

	for round := 0; len(frontier) > 0; round++ {
		if round >= p.roundCap {
			return nil, ErrDiscoveryDidNotConverge
		}
		plan.Rounds = round + 1
		metrics.BPDiscoveryRoundsTotal.Inc()

		var next []IncomingCallRequest
		for _, req := range frontier {
			stateHash := state
			response, err := p.dfr.SimulateL1ToL2Call(ctx, req.L1Caller, req.L2Address, req.Value, req.Gas, req.CallData)
			if err != nil {
				return nil, fmt.Errorf("simulate incoming call: %w", err)
			}

			var mu sync.Mutex
			var nested []IncomingCallRequest
			g, gctx := errgroup.WithContext(ctx)
			for _, oc := range response.OutgoingCalls {
				oc := oc
				g.Go(func() error {
					_, _, found, err := p.l1sim.Simulate(gctx, oc.From, oc.Target, oc.Value, oc.Gas, oc.Data)
					if err != nil {
						return fmt.Errorf("simulate outgoing call: %w", err)
					}
					mu.Lock()
					nested = append(nested, found...)
					mu.Unlock()
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}

			plan.Items = append(plan.Items, discovered{req: req, stateHash: stateHash, response: response})
			state = response.FinalStateHash
			next = append(next, nested...)
		}

		frontier = next
	}

	return plan, nil
}

// Register pre-announces every response a Plan discovered, in no
// particular order — registration keys are independent, so there is no
// ordering requirement between siblings or between a parent and its
// nested children (spec §4.4 step 3).
func (p *Planner) Register(ctx context.Context, plan *Plan) error {
	var wg sync.WaitGroup
	errs := make([]error, len(plan.Items))

	for i, item := range plan.Items {
		i, item := i, item
		wg.Add(1)
		go func() {
			defer wg.Done()
			proof, err := p.sign(item.stateHash, item.req.CallData, item.response)
			if err != nil {
				errs[i] = fmt.Errorf("sign response: %w", err)
				return
			}
			err = p.stc.RegisterIncomingCall(
				ctx, p.scheme, item.req.L2Address, item.stateHash, item.req.CallData, item.response, proof,
			)
			if isAlreadyRegistered(err) {
				// The same (l2_address, state, call_data) key surfaced
				// from more than one discovery branch; the first
				// registration already covers it.
				err = nil
			}
			errs[i] = err
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
