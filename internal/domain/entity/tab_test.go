package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	destroyed bool
}

func (s *fakeSurface) Destroy() { s.destroyed = true }

func TestNewTab_Defaults(t *testing.T) {
	tab := NewTab(TabID("tab-1"), &fakeSurface{}, "https://a")

	assert.Equal(t, "https://a", tab.URL)
	assert.Equal(t, DefaultTabTitle, tab.Title)
	assert.True(t, tab.IsLoading)
	assert.False(t, tab.CanGoBack)
	assert.False(t, tab.CanGoForward)
	assert.False(t, tab.CreatedAt.IsZero())
}

func TestTab_Snapshot(t *testing.T) {
	tab := NewTab(TabID("tab-1"), &fakeSurface{}, "https://a")
	tab.Title = "A"
	tab.CanGoBack = true
	tab.IsLoading = false

	assert.Equal(t, TabSnapshot{
		ID:        "tab-1",
		URL:       "https://a",
		Title:     "A",
		CanGoBack: true,
	}, tab.Snapshot())
}

func TestTabList_AddFindRemove(t *testing.T) {
	list := NewTabList[*fakeSurface]()
	s1, s2 := &fakeSurface{}, &fakeSurface{}

	require.True(t, list.Add(NewTab(TabID("a"), s1, "https://a")))
	require.True(t, list.Add(NewTab(TabID("b"), s2, "https://b")))
	assert.False(t, list.Add(NewTab(TabID("a"), &fakeSurface{}, "https://dup")))
	assert.False(t, list.Add(nil))
	assert.Equal(t, 2, list.Count())

	tab, ok := list.Find("b")
	require.True(t, ok)
	assert.Equal(t, "https://b", tab.URL)

	_, ok = list.Find("missing")
	assert.False(t, ok)

	assert.True(t, list.Remove("a"))
	assert.True(t, s1.destroyed, "removing a tab destroys its surface")
	assert.False(t, s2.destroyed)
	assert.False(t, list.Remove("a"))
	assert.Equal(t, 1, list.Count())
}

func TestTabList_InsertionOrder(t *testing.T) {
	list := NewTabList[*fakeSurface]()
	for _, id := range []TabID{"c", "a", "b"} {
		list.Add(NewTab(id, &fakeSurface{}, ""))
	}

	first, ok := list.First()
	require.True(t, ok)
	assert.Equal(t, TabID("c"), first.ID)

	list.Remove("c")
	first, ok = list.First()
	require.True(t, ok)
	assert.Equal(t, TabID("a"), first.ID)

	ids := make([]TabID, 0)
	for _, tab := range list.All() {
		ids = append(ids, tab.ID)
	}
	assert.Equal(t, []TabID{"a", "b"}, ids)

	list.Remove("a")
	list.Remove("b")
	_, ok = list.First()
	assert.False(t, ok)
}

func TestBelowStrip(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		strip         int
		want          Rect
	}{
		{"regular window", 1200, 800, 40, Rect{X: 0, Y: 40, Width: 1200, Height: 760}},
		{"no strip", 640, 480, 0, Rect{X: 0, Y: 0, Width: 640, Height: 480}},
		{"window shorter than strip", 300, 20, 40, Rect{X: 0, Y: 40, Width: 300, Height: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BelowStrip(tt.width, tt.height, tt.strip))
		})
	}
	assert.True(t, BelowStrip(300, 20, 40).Empty())
}
