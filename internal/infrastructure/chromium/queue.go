package chromium

import (
	"context"
	"sync"
)

// eventQueue runs callbacks one at a time in push order on its own
// goroutine. push never blocks, so it is safe from chromedp listeners.
type eventQueue struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

func newEventQueue(ctx context.Context) *eventQueue {
	q := &eventQueue{wake: make(chan struct{}, 1)}
	go q.run(ctx)
	return q
}

func (q *eventQueue) push(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *eventQueue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.wake:
		}

		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		for _, fn := range batch {
			if ctx.Err() != nil {
				return
			}
			fn()
		}
	}
}
