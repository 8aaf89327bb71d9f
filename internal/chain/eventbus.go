package chain

import "github.com/ethereum/go-ethereum/event"

// EventBus fans STC's emitted events out to subscribers (DFR's replay
// loop is the one subscriber in this module). It is a thin wrapper around go-ethereum's event.Feed, the
// same mechanism geth itself uses for its chain-event subscriptions —
// reused here rather than hand-rolled, since go-ethereum is already the
// load-bearing dependency for every other cross-chain primitive.
type EventBus struct {
	feed event.Feed
}

// NewEventBus returns a ready-to-use bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Publish broadcasts ev to all current subscribers. Never blocks longer
// than the slowest subscriber's channel permits backpressure on, mirroring
// event.Feed's own semantics.
func (b *EventBus) Publish(ev StateEvent) int {
	return b.feed.Send(ev)
}

// Subscribe registers ch to receive every future StateEvent. The caller
// owns ch's lifetime and must keep draining it; Subscription.Unsubscribe
// must be called exactly once.
func (b *EventBus) Subscribe(ch chan<- StateEvent) event.Subscription {
	return b.feed.Subscribe(ch)
}
