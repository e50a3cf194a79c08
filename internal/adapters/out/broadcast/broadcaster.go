// Package broadcast implements the live tracking fan-out as an in-process
// publish/subscribe hub. Delivery is at-most-once: events published while
// nobody watches an order are dropped, and a subscriber that cannot keep
// up loses events rather than slowing the publisher down. There is no
// retained history; a new subscriber sees only what happens after it
// subscribed.
package broadcast

import (
	"sync"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
)

// subscriptionBuffer is the per-subscriber channel capacity. A subscriber
// lagging more than this many events behind starts losing them.
const subscriptionBuffer = 16

// Subscription is one watcher of one order's event stream.
type Subscription struct {
	orderID kernel.UUID
	events  chan ports.TrackingEvent
}

// Events returns the channel tracking events arrive on. It is closed when
// the subscription is cancelled.
func (s *Subscription) Events() <-chan ports.TrackingEvent {
	return s.events
}

// Broadcaster fans tracking events out to per-order subscribers. It
// implements ports.TrackingPublisher and is safe for concurrent use.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[kernel.UUID]map[*Subscription]struct{}
}

// NewBroadcaster creates an empty broadcast hub.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[kernel.UUID]map[*Subscription]struct{}),
	}
}

// Subscribe registers a new watcher for the given order and returns its
// subscription. The caller must Unsubscribe when done.
func (b *Broadcaster) Subscribe(orderID kernel.UUID) *Subscription {
	sub := &Subscription{
		orderID: orderID,
		events:  make(chan ports.TrackingEvent, subscriptionBuffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[orderID] == nil {
		b.subscribers[orderID] = make(map[*Subscription]struct{})
	}
	b.subscribers[orderID][sub] = struct{}{}

	return sub
}

// Unsubscribe removes the watcher and closes its event channel. Calling it
// twice is safe.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subscribers[sub.orderID]
	if !ok {
		return
	}
	if _, ok = subs[sub]; !ok {
		return
	}

	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.subscribers, sub.orderID)
	}
	close(sub.events)
}

// Publish delivers the event to every current subscriber of its order.
// It never blocks: a full subscriber buffer drops the event for that
// subscriber only.
func (b *Broadcaster) Publish(event ports.TrackingEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers[event.OrderID] {
		select {
		case sub.events <- event:
		default:
		}
	}
}
