package port

import "context"

// Event is one outbound notification to the display layer.
type Event struct {
	Seq     uint64 `json:"seq"`
	Channel string `json:"channel"`
	Payload any    `json:"data"`
}

// EventPublisher is the fire-and-forget side of the notification bus.
type EventPublisher interface {
	Publish(channel string, payload any)
}

// EventSink receives bus events, one at a time, in publish order.
type EventSink interface {
	Deliver(ctx context.Context, event Event) error
}
