package chromium

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/target"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/logging"
)

// DefaultPollInterval is how often the browser window geometry is sampled.
const DefaultPollInterval = 250 * time.Millisecond

// windowState is one sample of the browser window.
type windowState struct {
	bounds    entity.Rect
	maximized bool
}

// windowChange lists the signals implied by going from prev to next.
type windowChange struct {
	resized     bool
	maximized   bool
	unmaximized bool
}

func diffWindow(prev, next windowState) windowChange {
	return windowChange{
		resized:     prev.bounds.Width != next.bounds.Width || prev.bounds.Height != next.bounds.Height,
		maximized:   !prev.maximized && next.maximized,
		unmaximized: prev.maximized && !next.maximized,
	}
}

// Window is the browser window hosting every page target. DevTools exposes
// no resize events so the geometry is polled.
type Window struct {
	host     *Host
	interval time.Duration

	mu        sync.Mutex
	callbacks *port.WindowCallbacks
	last      windowState
	sampled   bool
}

var _ port.Window = (*Window)(nil)

// Window returns the host window adapter.
func (h *Host) Window(interval time.Duration) *Window {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Window{host: h, interval: interval}
}

// ContentBounds returns the last sampled window size, sampling once if needed.
func (w *Window) ContentBounds(ctx context.Context) (entity.Rect, error) {
	w.mu.Lock()
	if w.sampled {
		bounds := w.last.bounds
		w.mu.Unlock()
		return bounds, nil
	}
	w.mu.Unlock()

	state, err := w.sample(ctx)
	if err != nil {
		return entity.Rect{}, err
	}
	w.mu.Lock()
	w.last, w.sampled = state, true
	w.mu.Unlock()
	return state.bounds, nil
}

func (w *Window) sample(ctx context.Context) (windowState, error) {
	_, bounds, err := browser.GetWindowForTarget().
		WithTargetID(w.host.anchorID).
		Do(w.host.browserExecutor(ctx))
	if err != nil {
		return windowState{}, fmt.Errorf("get window bounds: %w", err)
	}
	if bounds == nil {
		return windowState{}, fmt.Errorf("get window bounds: no bounds reported")
	}
	return windowState{
		bounds:    entity.Rect{Width: int(bounds.Width), Height: int(bounds.Height)},
		maximized: bounds.WindowState == browser.WindowStateMaximized,
	}, nil
}

// Attach brings the surface's page to the front.
func (w *Window) Attach(ctx context.Context, surface port.Surface) error {
	s, ok := surface.(*Surface)
	if !ok {
		return fmt.Errorf("attach: surface %T does not belong to this browser", surface)
	}
	if err := target.ActivateTarget(s.targetID).Do(w.host.browserExecutor(ctx)); err != nil {
		return fmt.Errorf("activate target: %w", err)
	}
	return s.bringToFront()
}

// Detach is a no-op: the next Attach covers the page.
func (w *Window) Detach(context.Context, port.Surface) error {
	return nil
}

// SetCallbacks registers the geometry signal handlers.
func (w *Window) SetCallbacks(callbacks *port.WindowCallbacks) {
	w.mu.Lock()
	w.callbacks = callbacks
	w.mu.Unlock()
}

// Run polls the window until ctx is done.
func (w *Window) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.host.Done():
			return nil
		case <-ticker.C:
		}

		state, err := w.sample(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Debug().Err(err).Msg("window sample failed")
			continue
		}
		w.observe(state)
	}
}

func (w *Window) observe(state windowState) {
	w.mu.Lock()
	prev, had := w.last, w.sampled
	w.last, w.sampled = state, true
	cb := w.callbacks
	w.mu.Unlock()

	if !had || cb == nil {
		return
	}
	change := diffWindow(prev, state)
	if change.maximized && cb.OnMaximize != nil {
		cb.OnMaximize()
	}
	if change.unmaximized && cb.OnUnmaximize != nil {
		cb.OnUnmaximize()
	}
	if change.resized && cb.OnResize != nil {
		cb.OnResize()
	}
}
