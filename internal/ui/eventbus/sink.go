package eventbus

import (
	"context"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/logging"
)

// SinkFunc adapts a function to port.EventSink.
type SinkFunc func(ctx context.Context, event port.Event) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, event port.Event) error {
	return f(ctx, event)
}

// LogSink writes every event to the context logger at debug level.
type LogSink struct{}

// Deliver logs the event.
func (LogSink) Deliver(ctx context.Context, event port.Event) error {
	logging.FromContext(ctx).Debug().
		Uint64("seq", event.Seq).
		Str("channel", event.Channel).
		Interface("data", event.Payload).
		Msg("event")
	return nil
}
