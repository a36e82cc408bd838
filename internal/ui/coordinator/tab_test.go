package coordinator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/domain/url"
	"github.com/bnema/multitab/internal/ui/eventbus"
)

func TestTabCoordinator_FirstTabBecomesActive(t *testing.T) {
	ctx := testContext()
	h := newHarness(t, nil, nil)

	id, err := h.tabs.Create(ctx, "https://a.example")
	require.NoError(t, err)

	assert.Equal(t, id, h.content.ActiveID())
	assert.Equal(t, []string{eventbus.TabSwitched, eventbus.TabCreated}, h.events.channels())

	surface := h.factory.surfaces[0]
	assert.Equal(t, []string{"https://a.example"}, surface.loaded)
	assert.Same(t, surface, h.window.attached)
	assert.Equal(t, 1, surface.focused)
	require.Len(t, surface.bounds, 1)
	assert.Equal(t, entity.Rect{X: 0, Y: 40, Width: 1200, Height: 760}, surface.bounds[0])

	created := h.events.on(eventbus.TabCreated)[0].(entity.TabSnapshot)
	assert.Equal(t, entity.TabSnapshot{
		ID:        id,
		URL:       "https://a.example",
		Title:     entity.DefaultTabTitle,
		IsLoading: true,
	}, created)
}

// Scenario A.
func TestTabCoordinator_LaterTabsDoNotChangeActive(t *testing.T) {
	ctx := testContext()
	h := newHarness(t, nil, nil)

	first, err := h.tabs.Create(ctx, "https://a")
	require.NoError(t, err)
	second, err := h.tabs.Create(ctx, "https://b")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, h.tabs.All(), 2)
	assert.Equal(t, first, h.content.ActiveID())
	assert.Len(t, h.events.on(eventbus.TabSwitched), 1)
	assert.Len(t, h.events.on(eventbus.TabCreated), 2)
}

func TestTabCoordinator_CreateResolvesInput(t *testing.T) {
	ctx := testContext()
	h := newHarness(t, nil, nil)
	h.tabs.SetResolver(url.Resolver{
		DefaultSearch: "https://search.example/?q=%s",
		Shortcuts:     map[string]string{"gh": "https://github.com/search?q=%s"},
	})

	_, err := h.tabs.Create(ctx, "golang channels")
	require.NoError(t, err)
	_, err = h.tabs.Create(ctx, "!gh zerolog")
	require.NoError(t, err)
	_, err = h.tabs.Create(ctx, "example.com")
	require.NoError(t, err)
	_, err = h.tabs.Create(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, "https://search.example/?q=golang+channels", h.factory.surfaces[0].loaded[0])
	assert.Equal(t, "https://github.com/search?q=zerolog", h.factory.surfaces[1].loaded[0])
	assert.Equal(t, "https://example.com", h.factory.surfaces[2].loaded[0])
	assert.Equal(t, DefaultHomepage, h.factory.surfaces[3].loaded[0])
}

func TestTabCoordinator_CreateFailsWithoutSurface(t *testing.T) {
	ctx := testContext()
	h := newHarness(t, nil, nil)
	h.factory.err = errors.New("browser gone")

	id, err := h.tabs.Create(ctx, "https://a")
	require.Error(t, err)
	assert.Empty(t, id)
	assert.Empty(t, h.tabs.All())
	assert.Empty(t, h.events.channels())
}

func TestTabCoordinator_CloseActiveFallsBackToFirstRemaining(t *testing.T) {
	ctx := testContext()
	h := newHarness(t, nil, nil)

	a, _ := h.tabs.Create(ctx, "https://a")
	b, _ := h.tabs.Create(ctx, "https://b")
	c, _ := h.tabs.Create(ctx, "https://c")
	h.content.Switch(ctx, c)
	h.events.reset()

	h.tabs.Close(ctx, c)

	assert.True(t, h.factory.surfaces[2].destroyed)
	assert.Equal(t, a, h.content.ActiveID())
	assert.Same(t, h.factory.surfaces[0], h.window.attached)
	assert.Equal(t, []string{eventbus.TabSwitched, eventbus.TabClosed}, h.events.channels())
	assert.Equal(t, string(c), h.events.on(eventbus.TabClosed)[0])

	ids := make([]entity.TabID, 0)
	for _, tab := range h.tabs.All() {
		ids = append(ids, tab.ID)
	}
	assert.Equal(t, []entity.TabID{a, b}, ids)
}

func TestTabCoordinator_CloseInactiveKeepsActive(t *testing.T) {
	ctx := testContext()
	h := newHarness(t, nil, nil)

	a, _ := h.tabs.Create(ctx, "https://a")
	b, _ := h.tabs.Create(ctx, "https://b")
	h.events.reset()

	h.tabs.Close(ctx, b)

	assert.Equal(t, a, h.content.ActiveID())
	assert.Equal(t, []string{eventbus.TabClosed}, h.events.channels())
	assert.True(t, h.factory.surfaces[1].destroyed)
	assert.False(t, h.factory.surfaces[0].destroyed)
}

// Scenario D.
func TestTabCoordinator_CloseLastTabClearsActive(t *testing.T) {
	ctx := testContext()
	h := newHarness(t, nil, nil)

	a, _ := h.tabs.Create(ctx, "https://a")
	surface := h.factory.surfaces[0]
	boundsBefore := len(surface.bounds)

	h.tabs.Close(ctx, a)

	assert.Empty(t, h.content.ActiveID())
	assert.Nil(t, h.window.attached)
	assert.True(t, surface.destroyed)
	assert.Empty(t, h.tabs.All())

	h.content.Resize(ctx)
	h.window.callbacks.OnResize()
	h.loop.drain()
	assert.Len(t, surface.bounds, boundsBefore)
}

func TestTabCoordinator_CloseUnknownIsNoop(t *testing.T) {
	ctx := testContext()
	h := newHarness(t, nil, nil)
	_, _ = h.tabs.Create(ctx, "https://a")
	h.events.reset()

	h.tabs.Close(ctx, "tab-missing")

	assert.Empty(t, h.events.channels())
	assert.Len(t, h.tabs.All(), 1)
}

func TestTabCoordinator_NavigationDelegatesToSurface(t *testing.T) {
	ctx := testContext()
	h := newHarness(t, nil, nil)
	id, _ := h.tabs.Create(ctx, "https://a")
	surface := h.factory.surfaces[0]
	h.events.reset()

	h.tabs.Navigate(ctx, id, "https://b")
	h.tabs.GoBack(ctx, id)
	h.tabs.GoForward(ctx, id)
	h.tabs.Reload(ctx, id)

	h.tabs.Navigate(ctx, "tab-missing", "https://c")
	h.tabs.GoBack(ctx, "tab-missing")
	h.tabs.GoForward(ctx, "tab-missing")
	h.tabs.Reload(ctx, "tab-missing")

	assert.Equal(t, []string{"https://a", "https://b"}, surface.loaded)
	assert.Equal(t, 1, surface.back)
	assert.Equal(t, 1, surface.forward)
	assert.Equal(t, 1, surface.reloads)
	assert.Empty(t, h.events.channels())
}

func TestTabSnapshot_JSONShape(t *testing.T) {
	ctx := testContext()
	h := newHarness(t, nil, nil)
	_, _ = h.tabs.Create(ctx, "https://a")

	raw, err := json.Marshal(h.tabs.All()[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"tab-1","url":"https://a","title":"Loading","canGoBack":false,"canGoForward":false,"isLoading":true}`, string(raw))
}
