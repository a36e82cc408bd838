// Package mainloop runs the shell's single coordination goroutine.
// Every registry mutation is a task posted here; tasks run one at a time
// and to completion, in the order they were posted.
package mainloop

import (
	"context"
	"errors"
	"sync"

	"github.com/bnema/multitab/internal/logging"
)

// ErrLoopStopped is returned when work is submitted to a stopped loop.
var ErrLoopStopped = errors.New("main loop stopped")

// DefaultQueueSize is the initial queue capacity used when NewLoop is
// given a non-positive size.
const DefaultQueueSize = 256

// Loop is a FIFO task queue drained by one goroutine. The queue grows as
// needed, so posting never waits on the loop.
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a stopped-until-Run loop with the given initial capacity.
func NewLoop(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Loop{
		queue: make([]func(), 0, queueSize),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Run drains the queue until ctx is cancelled or Stop is called.
// A panicking task is logged and does not stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Stop()
	log := logging.FromContext(ctx)
	log.Debug().Msg("main loop started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("main loop stopped by context")
			return ctx.Err()
		case <-l.done:
			log.Debug().Msg("main loop stopped")
			return nil
		case <-l.wake:
		}

		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			if ctx.Err() != nil || l.stopped() {
				break
			}
			l.exec(ctx, fn)
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

func (*Loop) exec(ctx context.Context, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error().Interface("panic", r).Msg("main loop task panicked")
		}
	}()
	fn()
}

// Post queues fn without blocking. It returns false once the loop has
// stopped, so host event goroutines can call it at any time.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.stopped() {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Invoke posts fn and waits for it to finish.
// It must not be called from a task running on the loop.
func (l *Loop) Invoke(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	}
}

// Stop ends Run. Queued tasks that have not started are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		close(l.done)
		l.queue = nil
		l.mu.Unlock()
	})
}

// Done is closed once the loop has stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
