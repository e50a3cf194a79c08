package ports

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
)

// TrackingEventKind names the live tracking event types pushed to order
// subscribers.
type TrackingEventKind string

const (
	TrackingOrderStatusUpdated TrackingEventKind = "order-status-updated"
	TrackingLocationUpdated    TrackingEventKind = "location-updated"
)

// TrackingEvent is a single live tracking update for one order. Status is set
// for status events, Location for location events.
type TrackingEvent struct {
	OrderID  kernel.UUID
	Kind     TrackingEventKind
	Status   string
	Location *kernel.GeoPoint
	At       time.Time
}

// TrackingPublisher fans tracking events out to whoever is watching the
// order. Publish is fire-and-forget: it never blocks, never returns an error,
// and drops events for slow or absent subscribers. Command handlers publish
// only after their transaction commits.
type TrackingPublisher interface {
	Publish(event TrackingEvent)
}
