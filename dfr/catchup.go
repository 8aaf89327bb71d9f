package dfr

import (
	"golang.org/x/exp/slices"

	"github.com/nativerollup/bridge/internal/chain"
)

// CatchUp replays a batch of historical events fetched directly (e.g. by
// an initial log query against the host chain, before Start begins
// consuming the live event bus) in strict (block_number, log_index)
// order, exactly as spec §4.3 step 1 requires: DFR sorts once up front
// rather than trusting the fetch order of whatever RPC call produced the
// batch.
func (d *Driver) CatchUp(events []chain.StateEvent) error {
	ordered := make([]chain.StateEvent, len(events))
	copy(ordered, events)
	slices.SortFunc(ordered, func(a, b chain.StateEvent) int {
		switch {
		case a.Pos().Less(b.Pos()):
			return -1
		case b.Pos().Less(a.Pos()):
			return 1
		default:
			return 0
		}
	})

	for _, ev := range ordered {
		if err := d.applyWithRetry(ev); err != nil {
			return err
		}
	}
	return nil
}
