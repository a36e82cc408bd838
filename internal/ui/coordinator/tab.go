package coordinator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/domain/url"
	"github.com/bnema/multitab/internal/logging"
	"github.com/bnema/multitab/internal/ui/eventbus"
)

// DefaultHomepage is loaded when a tab is created from empty input.
const DefaultHomepage = "about:blank"

// TabCoordinator manages tab lifecycle operations.
type TabCoordinator struct {
	tabs      *entity.TabList[port.Surface]
	factory   port.SurfaceFactory
	content   *ContentCoordinator
	events    port.EventPublisher
	post      func(func()) bool
	resolver  url.Resolver
	homepage  string
	bootstrap string
	newID     func() entity.TabID
}

// TabCoordinatorConfig holds configuration for TabCoordinator.
type TabCoordinatorConfig struct {
	Tabs    *entity.TabList[port.Surface]
	Factory port.SurfaceFactory
	Content *ContentCoordinator
	Events  port.EventPublisher
	// Post schedules surface callbacks onto the coordination loop.
	Post            func(func()) bool
	Resolver        url.Resolver
	Homepage        string
	BootstrapScript string
	// NewID overrides tab id generation. Defaults to tab-<uuid>.
	NewID func() entity.TabID
}

// NewTabCoordinator creates a new TabCoordinator.
func NewTabCoordinator(ctx context.Context, cfg TabCoordinatorConfig) *TabCoordinator {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating tab coordinator")

	homepage := cfg.Homepage
	if homepage == "" {
		homepage = DefaultHomepage
	}
	newID := cfg.NewID
	if newID == nil {
		newID = func() entity.TabID { return entity.TabID("tab-" + uuid.NewString()) }
	}

	return &TabCoordinator{
		tabs:      cfg.Tabs,
		factory:   cfg.Factory,
		content:   cfg.Content,
		events:    cfg.Events,
		post:      cfg.Post,
		resolver:  cfg.Resolver,
		homepage:  homepage,
		bootstrap: cfg.BootstrapScript,
		newID:     newID,
	}
}

// SetResolver replaces the typed-input resolver.
func (c *TabCoordinator) SetResolver(resolver url.Resolver) {
	c.resolver = resolver
}

// Create opens a tab on input, resolved to a URL first. The first tab in
// the registry becomes active.
func (c *TabCoordinator) Create(ctx context.Context, input string) (entity.TabID, error) {
	log := logging.FromContext(ctx)

	target := c.resolve(input)
	surface, err := c.factory.Create(ctx, port.SurfaceOptions{BootstrapScript: c.bootstrap})
	if err != nil {
		return "", fmt.Errorf("create surface: %w", err)
	}

	tab := entity.NewTab(c.newID(), surface, target)
	if !c.tabs.Add(tab) {
		surface.Destroy()
		return "", fmt.Errorf("register tab %s: id already in use", tab.ID)
	}
	c.wireSurface(ctx, tab.ID, surface)

	if err := surface.LoadURL(ctx, target); err != nil {
		log.Warn().Err(err).Str("tab_id", string(tab.ID)).Str("url", target).Msg("failed to start loading")
	}

	if c.tabs.Count() == 1 {
		c.content.Switch(ctx, tab.ID)
	}

	c.events.Publish(eventbus.TabCreated, tab.Snapshot())
	log.Debug().Str("tab_id", string(tab.ID)).Str("url", target).Msg("tab created")
	return tab.ID, nil
}

// Close destroys a tab. Closing the active tab activates the first
// remaining tab, or empties the window slot when none remain.
func (c *TabCoordinator) Close(ctx context.Context, id entity.TabID) {
	log := logging.FromContext(ctx)

	tab, ok := c.tabs.Find(id)
	if !ok {
		log.Debug().Str("tab_id", string(id)).Msg("close of unknown tab ignored")
		return
	}

	wasActive := c.content.ActiveID() == id
	if wasActive {
		c.content.Deactivate(ctx)
	}

	tab.Surface.SetCallbacks(nil)
	c.tabs.Remove(id)

	if wasActive {
		if next, ok := c.tabs.First(); ok {
			c.content.Switch(ctx, next.ID)
		}
	}

	c.events.Publish(eventbus.TabClosed, string(id))
	log.Debug().Str("tab_id", string(id)).Bool("was_active", wasActive).Int("remaining", c.tabs.Count()).Msg("tab closed")
}

// Navigate loads input, resolved to a URL, in tab id.
func (c *TabCoordinator) Navigate(ctx context.Context, id entity.TabID, input string) {
	target := c.resolve(input)
	c.withSurface(ctx, id, "navigate", func(s port.Surface) error {
		return s.LoadURL(ctx, target)
	})
}

// GoBack navigates tab id back in its history.
func (c *TabCoordinator) GoBack(ctx context.Context, id entity.TabID) {
	c.withSurface(ctx, id, "go back", func(s port.Surface) error { return s.GoBack(ctx) })
}

// GoForward navigates tab id forward in its history.
func (c *TabCoordinator) GoForward(ctx context.Context, id entity.TabID) {
	c.withSurface(ctx, id, "go forward", func(s port.Surface) error { return s.GoForward(ctx) })
}

// Reload reloads tab id.
func (c *TabCoordinator) Reload(ctx context.Context, id entity.TabID) {
	c.withSurface(ctx, id, "reload", func(s port.Surface) error { return s.Reload(ctx) })
}

// All returns every tab in creation order.
func (c *TabCoordinator) All() []entity.TabSnapshot {
	tabs := c.tabs.All()
	out := make([]entity.TabSnapshot, 0, len(tabs))
	for _, tab := range tabs {
		out = append(out, tab.Snapshot())
	}
	return out
}

func (c *TabCoordinator) withSurface(ctx context.Context, id entity.TabID, op string, fn func(port.Surface) error) {
	log := logging.FromContext(ctx)

	tab, ok := c.tabs.Find(id)
	if !ok {
		log.Debug().Str("tab_id", string(id)).Str("op", op).Msg("unknown tab ignored")
		return
	}
	if err := fn(tab.Surface); err != nil {
		log.Warn().Err(err).Str("tab_id", string(id)).Str("op", op).Msg("surface command failed")
	}
}

func (c *TabCoordinator) resolve(input string) string {
	if target := c.resolver.Resolve(input); target != "" {
		return target
	}
	return c.homepage
}
