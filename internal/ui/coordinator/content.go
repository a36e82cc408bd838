package coordinator

import (
	"context"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/logging"
	"github.com/bnema/multitab/internal/ui/eventbus"
	"github.com/bnema/multitab/internal/ui/mainloop"
)

// DefaultTabBarHeight is the strip reserved above the visible surface.
const DefaultTabBarHeight = 40

const resizeKey = "resize"

// ContentCoordinator owns the active tab pointer and the window's single
// visible surface slot.
type ContentCoordinator struct {
	tabs    *entity.TabList[port.Surface]
	window  port.Window
	events  port.EventPublisher
	resizes *mainloop.Coalescer

	activeID     entity.TabID
	tabBarHeight int
}

// ContentCoordinatorConfig holds configuration for ContentCoordinator.
type ContentCoordinatorConfig struct {
	Tabs         *entity.TabList[port.Surface]
	Window       port.Window
	Events       port.EventPublisher
	Post         func(func()) bool
	TabBarHeight int
}

// NewContentCoordinator creates a new ContentCoordinator.
func NewContentCoordinator(ctx context.Context, cfg ContentCoordinatorConfig) *ContentCoordinator {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating content coordinator")

	height := cfg.TabBarHeight
	if height < 0 {
		height = DefaultTabBarHeight
	}

	return &ContentCoordinator{
		tabs:         cfg.Tabs,
		window:       cfg.Window,
		events:       cfg.Events,
		resizes:      mainloop.NewCoalescer(cfg.Post),
		tabBarHeight: height,
	}
}

// ActiveID returns the visible tab, or "" when none is.
func (c *ContentCoordinator) ActiveID() entity.TabID {
	return c.activeID
}

// TabBarHeight returns the reserved strip height.
func (c *ContentCoordinator) TabBarHeight() int {
	return c.tabBarHeight
}

// WireWindow routes window geometry signals to a coalesced Resize.
func (c *ContentCoordinator) WireWindow(ctx context.Context) {
	if c.window == nil {
		return
	}
	c.window.SetCallbacks(&port.WindowCallbacks{
		OnResize:     func() { c.ScheduleResize(ctx) },
		OnMaximize:   func() { c.ScheduleResize(ctx) },
		OnUnmaximize: func() { c.ScheduleResize(ctx) },
	})
}

// Switch makes id the visible tab. Switching to the active tab or to an
// unknown id does nothing.
func (c *ContentCoordinator) Switch(ctx context.Context, id entity.TabID) {
	log := logging.FromContext(ctx)

	if id == c.activeID {
		return
	}
	tab, ok := c.tabs.Find(id)
	if !ok {
		log.Debug().Str("tab_id", string(id)).Msg("switch to unknown tab ignored")
		return
	}

	if prev, ok := c.tabs.Find(c.activeID); ok {
		if err := c.window.Detach(ctx, prev.Surface); err != nil {
			log.Warn().Err(err).Str("tab_id", string(prev.ID)).Msg("failed to detach surface")
		}
	}
	if err := c.window.Attach(ctx, tab.Surface); err != nil {
		log.Warn().Err(err).Str("tab_id", string(id)).Msg("failed to attach surface")
	}
	c.activeID = id

	c.Resize(ctx)
	if err := tab.Surface.Focus(ctx); err != nil {
		log.Debug().Err(err).Str("tab_id", string(id)).Msg("failed to focus surface")
	}

	c.events.Publish(eventbus.TabSwitched, tab.Snapshot())
	log.Debug().Str("tab_id", string(id)).Msg("switched tab")
}

// Deactivate detaches the visible surface and clears the active pointer.
func (c *ContentCoordinator) Deactivate(ctx context.Context) {
	if tab, ok := c.tabs.Find(c.activeID); ok {
		if err := c.window.Detach(ctx, tab.Surface); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("tab_id", string(tab.ID)).Msg("failed to detach surface")
		}
	}
	c.activeID = ""
}

// Resize fits the active surface to the window content area below the tab bar.
// Without an active tab it does nothing.
func (c *ContentCoordinator) Resize(ctx context.Context) {
	log := logging.FromContext(ctx)

	tab, ok := c.tabs.Find(c.activeID)
	if !ok {
		return
	}

	content, err := c.window.ContentBounds(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read window content bounds")
		return
	}

	bounds := entity.BelowStrip(content.Width, content.Height, c.tabBarHeight)
	if err := tab.Surface.SetBounds(ctx, bounds); err != nil {
		log.Warn().Err(err).Str("tab_id", string(tab.ID)).Msg("failed to set surface bounds")
		return
	}
	log.Trace().
		Str("tab_id", string(tab.ID)).
		Int("width", bounds.Width).
		Int("height", bounds.Height).
		Msg("surface resized")
}

// ScheduleResize queues a Resize on the loop. Calls made before it runs collapse into one.
func (c *ContentCoordinator) ScheduleResize(ctx context.Context) {
	c.resizes.Post(resizeKey, func() { c.Resize(ctx) })
}

// SetTabBarHeight changes the reserved strip and refits the active surface.
func (c *ContentCoordinator) SetTabBarHeight(ctx context.Context, height int) {
	if height < 0 || height == c.tabBarHeight {
		return
	}
	c.tabBarHeight = height
	c.Resize(ctx)
}

// Close drops pending resizes.
func (c *ContentCoordinator) Close() {
	c.resizes.Destroy()
}
