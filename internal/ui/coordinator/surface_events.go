package coordinator

import (
	"context"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/logging"
	"github.com/bnema/multitab/internal/ui/eventbus"
)

// wireSurface registers the tab's surface signals. Each one is handled on
// the loop and dropped if the tab has been closed by then.
func (c *TabCoordinator) wireSurface(ctx context.Context, id entity.TabID, surface port.Surface) {
	surface.SetCallbacks(&port.SurfaceCallbacks{
		OnTitleChanged: func(title string) {
			c.onTab(ctx, id, func(tab *entity.Tab[port.Surface]) {
				c.update(ctx, tab, TabUpdate{ID: id, Title: ptr(title)})
			})
		},
		OnNavigated: func(u string) {
			c.onTab(ctx, id, func(tab *entity.Tab[port.Surface]) {
				c.update(ctx, tab, TabUpdate{
					ID:           id,
					URL:          ptr(u),
					CanGoBack:    ptr(tab.Surface.CanGoBack()),
					CanGoForward: ptr(tab.Surface.CanGoForward()),
				})
			})
		},
		OnLoadStarted: func() {
			c.onTab(ctx, id, func(tab *entity.Tab[port.Surface]) {
				c.update(ctx, tab, TabUpdate{ID: id, IsLoading: ptr(true)})
			})
		},
		OnLoadStopped: func() {
			c.onTab(ctx, id, func(tab *entity.Tab[port.Surface]) {
				c.update(ctx, tab, TabUpdate{
					ID:           id,
					IsLoading:    ptr(false),
					CanGoBack:    ptr(tab.Surface.CanGoBack()),
					CanGoForward: ptr(tab.Surface.CanGoForward()),
				})
			})
		},
		OnContentReady: func() {
			c.onTab(ctx, id, func(*entity.Tab[port.Surface]) {
				if c.content.ActiveID() == id {
					c.content.Resize(ctx)
				}
			})
		},
		OnNewWindow: func(target string) {
			c.onTab(ctx, id, func(*entity.Tab[port.Surface]) {
				if _, err := c.Create(ctx, target); err != nil {
					logging.FromContext(ctx).Error().Err(err).Str("url", target).Msg("failed to open new window as tab")
				}
			})
		},
	})
}

func (c *TabCoordinator) onTab(ctx context.Context, id entity.TabID, fn func(tab *entity.Tab[port.Surface])) {
	posted := c.post(func() {
		tab, ok := c.tabs.Find(id)
		if !ok {
			logging.FromContext(ctx).Trace().Str("tab_id", string(id)).Msg("event for closed tab dropped")
			return
		}
		fn(tab)
	})
	if !posted {
		logging.FromContext(ctx).Debug().Str("tab_id", string(id)).Msg("surface event dropped, loop stopped")
	}
}

func (c *TabCoordinator) update(ctx context.Context, tab *entity.Tab[port.Surface], upd TabUpdate) {
	upd.applyTo(tab)
	c.events.Publish(eventbus.TabUpdated, upd)
	logging.FromContext(ctx).Trace().Str("tab_id", string(tab.ID)).Msg("tab updated")
}
