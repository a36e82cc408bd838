package mainloop

import "sync"

// Coalescer merges bursts of same-key tasks into one queued run.
// The last function posted for a key before the run starts wins.
type Coalescer struct {
	mu        sync.Mutex
	pending   map[string]func()
	post      func(func()) bool
	destroyed bool
}

// NewCoalescer creates a coalescer that schedules through post, usually Loop.Post.
func NewCoalescer(post func(func()) bool) *Coalescer {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}

	return &Coalescer{
		pending: make(map[string]func()),
		post:    post,
	}
}

// Post schedules fn under key unless a run for key is already queued,
// in which case fn replaces the queued function.
func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	_, queued := c.pending[key]
	c.pending[key] = fn
	c.mu.Unlock()

	if queued {
		return
	}

	if !c.post(func() { c.run(key) }) {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
	}
}

func (c *Coalescer) run(key string) {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	fn := c.pending[key]
	delete(c.pending, key)
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Destroy drops queued work and ignores later posts.
func (c *Coalescer) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.pending = map[string]func(){}
	c.mu.Unlock()
}
