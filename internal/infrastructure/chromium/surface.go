package chromium

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/logging"
)

// Surface is one page target.
type Surface struct {
	logCtx    context.Context
	ctx       context.Context
	cancel    context.CancelFunc
	targetID  target.ID
	onDestroy func()

	canGoBack    atomic.Bool
	canGoForward atomic.Bool
	destroyed    atomic.Bool

	// events keeps history refreshes and callbacks in the order the
	// browser reported them.
	events *eventQueue

	mu        sync.Mutex
	callbacks *port.SurfaceCallbacks
	title     string
}

var _ port.Surface = (*Surface)(nil)

func newSurface(logCtx, tabCtx context.Context, cancel context.CancelFunc) *Surface {
	return &Surface{logCtx: logCtx, ctx: tabCtx, cancel: cancel, events: newEventQueue(tabCtx)}
}

// TargetID returns the DevTools target backing the surface.
func (s *Surface) TargetID() target.ID {
	return s.targetID
}

// LoadURL navigates without waiting for the load event.
func (s *Surface) LoadURL(_ context.Context, url string) error {
	return s.async("navigate", chromedp.Navigate(url))
}

// GoBack steps back in the page history.
func (s *Surface) GoBack(_ context.Context) error {
	return s.async("go back", chromedp.NavigateBack())
}

// GoForward steps forward in the page history.
func (s *Surface) GoForward(_ context.Context) error {
	return s.async("go forward", chromedp.NavigateForward())
}

// Reload reloads the current document.
func (s *Surface) Reload(_ context.Context) error {
	return s.async("reload", chromedp.Reload())
}

// async runs a navigation action off the caller's goroutine. chromedp's
// navigation actions wait for the load to finish.
func (s *Surface) async(what string, action chromedp.Action) error {
	if s.destroyed.Load() {
		return fmt.Errorf("%s: surface destroyed", what)
	}
	go func() {
		if err := chromedp.Run(s.ctx, action); err != nil && s.ctx.Err() == nil {
			logging.FromContext(s.logCtx).Debug().Err(err).Str("target_id", string(s.targetID)).Msgf("%s failed", what)
		}
	}()
	return nil
}

func (s *Surface) CanGoBack() bool    { return s.canGoBack.Load() }
func (s *Surface) CanGoForward() bool { return s.canGoForward.Load() }

// SetBounds sizes the page viewport to the content slot.
func (s *Surface) SetBounds(_ context.Context, bounds entity.Rect) error {
	if s.destroyed.Load() {
		return nil
	}
	return chromedp.Run(s.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return emulation.SetDeviceMetricsOverride(int64(bounds.Width), int64(bounds.Height), 1, false).Do(ctx)
	}))
}

// Focus gives the document keyboard focus.
func (s *Surface) Focus(_ context.Context) error {
	if s.destroyed.Load() {
		return nil
	}
	var focused bool
	return chromedp.Run(s.ctx, chromedp.Evaluate(`window.focus(), document.hasFocus()`, &focused))
}

func (s *Surface) bringToFront() error {
	if s.destroyed.Load() {
		return nil
	}
	return chromedp.Run(s.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return page.BringToFront().Do(ctx)
	}))
}

// SetCallbacks replaces the signal handlers.
func (s *Surface) SetCallbacks(callbacks *port.SurfaceCallbacks) {
	s.mu.Lock()
	s.callbacks = callbacks
	s.mu.Unlock()
}

func (s *Surface) handlers() *port.SurfaceCallbacks {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.callbacks == nil {
		return &port.SurfaceCallbacks{}
	}
	return s.callbacks
}

// Destroy closes the page target and waits for it to go away.
func (s *Surface) Destroy() {
	if !s.destroyed.CompareAndSwap(false, true) {
		return
	}
	s.SetCallbacks(nil)
	if err := chromedp.Cancel(s.ctx); err != nil {
		logging.FromContext(s.logCtx).Debug().Err(err).Str("target_id", string(s.targetID)).Msg("page target close failed")
	}
	s.cancel()
	if s.onDestroy != nil {
		s.onDestroy()
	}
}

// handleEvent runs on the chromedp event goroutine and must not block.
// Everything it triggers goes through the surface's event queue.
func (s *Surface) handleEvent(ev any) {
	if s.destroyed.Load() {
		return
	}
	switch ev := ev.(type) {
	case *page.EventFrameStartedLoading:
		if s.isMainFrame(ev.FrameID) {
			s.fire(func(cb *port.SurfaceCallbacks) {
				if cb.OnLoadStarted != nil {
					cb.OnLoadStarted()
				}
			})
		}
	case *page.EventFrameStoppedLoading:
		if s.isMainFrame(ev.FrameID) {
			s.fireAfterHistoryRefresh(func(cb *port.SurfaceCallbacks) {
				if cb.OnLoadStopped != nil {
					cb.OnLoadStopped()
				}
			})
		}
	case *page.EventFrameNavigated:
		if ev.Frame != nil && ev.Frame.ParentID == "" {
			url := ev.Frame.URL + ev.Frame.URLFragment
			s.fireAfterHistoryRefresh(func(cb *port.SurfaceCallbacks) {
				if cb.OnNavigated != nil {
					cb.OnNavigated(url)
				}
			})
		}
	case *page.EventNavigatedWithinDocument:
		if s.isMainFrame(ev.FrameID) {
			url := ev.URL
			s.fireAfterHistoryRefresh(func(cb *port.SurfaceCallbacks) {
				if cb.OnNavigated != nil {
					cb.OnNavigated(url)
				}
			})
		}
	case *page.EventDomContentEventFired:
		s.fire(func(cb *port.SurfaceCallbacks) {
			if cb.OnContentReady != nil {
				cb.OnContentReady()
			}
		})
	}
}

// The main frame of a page target shares the target's id.
func (s *Surface) isMainFrame(id cdp.FrameID) bool {
	return string(id) == string(s.targetID)
}

func (s *Surface) fire(call func(cb *port.SurfaceCallbacks)) {
	s.events.push(func() {
		if s.destroyed.Load() {
			return
		}
		call(s.handlers())
	})
}

func (s *Surface) fireAfterHistoryRefresh(call func(cb *port.SurfaceCallbacks)) {
	s.events.push(func() {
		if s.destroyed.Load() {
			return
		}
		s.refreshHistory()
		if s.destroyed.Load() {
			return
		}
		call(s.handlers())
	})
}

func (s *Surface) refreshHistory() {
	err := chromedp.Run(s.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		current, entries, err := page.GetNavigationHistory().Do(ctx)
		if err != nil {
			return err
		}
		back, forward := historyFlags(current, len(entries))
		s.canGoBack.Store(back)
		s.canGoForward.Store(forward)
		return nil
	}))
	if err != nil && s.ctx.Err() == nil {
		logging.FromContext(s.logCtx).Debug().Err(err).Str("target_id", string(s.targetID)).Msg("navigation history unavailable")
	}
}

func historyFlags(current int64, entries int) (back, forward bool) {
	return current > 0, current < int64(entries)-1
}

func (s *Surface) observeTitle(title string) {
	if s.destroyed.Load() || title == "" {
		return
	}
	s.mu.Lock()
	changed := title != s.title
	s.title = title
	s.mu.Unlock()
	if !changed {
		return
	}
	s.fire(func(cb *port.SurfaceCallbacks) {
		if cb.OnTitleChanged != nil {
			cb.OnTitleChanged(title)
		}
	})
}

func (s *Surface) fireNewWindow(url string) {
	if s.destroyed.Load() {
		return
	}
	s.fire(func(cb *port.SurfaceCallbacks) {
		if cb.OnNewWindow != nil {
			cb.OnNewWindow(url)
		}
	})
}
