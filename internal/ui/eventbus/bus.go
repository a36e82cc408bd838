// Package eventbus is the one-way notification channel from the shell core
// to the display layer. Publishing never blocks the caller.
package eventbus

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/logging"
)

// DefaultBuffer is the queue size used when New is given a non-positive size.
const DefaultBuffer = 256

var _ port.EventPublisher = (*Bus)(nil)

// Bus queues events and fans them out to sinks from a single dispatcher goroutine.
type Bus struct {
	queue   chan port.Event
	seq     atomic.Uint64
	dropped atomic.Uint64

	mu    sync.RWMutex
	sinks []port.EventSink

	closeOnce sync.Once
	closed    chan struct{}
}

// New creates a bus with the given queue size.
func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{
		queue:  make(chan port.Event, buffer),
		closed: make(chan struct{}),
	}
}

// Subscribe adds a sink. Sinks added later only see later events.
func (b *Bus) Subscribe(sink port.EventSink) {
	if sink == nil {
		return
	}
	b.mu.Lock()
	b.sinks = append(b.sinks, sink)
	b.mu.Unlock()
}

// Publish enqueues an event. When the queue is full or the bus is closed
// the event is dropped and counted.
func (b *Bus) Publish(channel string, payload any) {
	select {
	case <-b.closed:
		b.dropped.Add(1)
		return
	default:
	}

	ev := port.Event{Seq: b.seq.Add(1), Channel: channel, Payload: payload}
	select {
	case b.queue <- ev:
	default:
		b.dropped.Add(1)
	}
}

// Dropped returns how many events were not queued.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Run dispatches queued events until ctx is cancelled or Close is called.
// A failing sink is logged and does not affect other sinks.
func (b *Bus) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	var reportedDrops uint64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.closed:
			return nil
		case ev := <-b.queue:
			if drops := b.Dropped(); drops != reportedDrops {
				log.Warn().Uint64("dropped", drops-reportedDrops).Msg("event bus overflow, events dropped")
				reportedDrops = drops
			}
			b.dispatch(ctx, ev)
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, ev port.Event) {
	b.mu.RLock()
	sinks := make([]port.EventSink, len(b.sinks))
	copy(sinks, b.sinks)
	b.mu.RUnlock()

	for _, sink := range sinks {
		if err := sink.Deliver(ctx, ev); err != nil {
			logging.FromContext(ctx).Debug().
				Err(err).
				Str("channel", ev.Channel).
				Uint64("seq", ev.Seq).
				Msg("event sink failed")
		}
	}
}

// Close stops Run and makes later publishes no-ops.
func (b *Bus) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
}
