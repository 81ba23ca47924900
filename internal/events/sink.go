// Package events publishes slot lifecycle updates to interested consumers
// such as availability displays.
package events

import "context"

// SlotStatus marks the direction of a slot update.
type SlotStatus string

const (
	// SlotReserved announces a slot newly held by a reservation.
	SlotReserved SlotStatus = "reserved"
	// SlotAvailable announces a slot freed by a cancellation.
	SlotAvailable SlotStatus = "available"
)

// SlotUpdate is the wire payload for one slot transition.
type SlotUpdate struct {
	RoomID    int64      `json:"roomId"`
	Date      string     `json:"date"`
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	Status    SlotStatus `json:"status"`
}

// Sink delivers slot updates. Delivery is best effort; callers never roll
// back a mutation because a publish failed.
type Sink interface {
	Publish(ctx context.Context, update SlotUpdate) error
	Close() error
}

// NopSink discards every update. Used when no broker is configured.
type NopSink struct{}

// Publish discards the update.
func (NopSink) Publish(context.Context, SlotUpdate) error { return nil }

// Close does nothing.
func (NopSink) Close() error { return nil }
