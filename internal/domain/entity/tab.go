package entity

import "time"

// TabID uniquely identifies a tab.
type TabID string

// Surface is the part of a rendering surface the tab registry relies on.
// Destroy must release the surface synchronously.
type Surface interface {
	Destroy()
}

// Tab is a browser tab and the surface it exclusively owns.
type Tab[S Surface] struct {
	ID           TabID
	Surface      S
	URL          string
	Title        string
	CanGoBack    bool
	CanGoForward bool
	IsLoading    bool
	CreatedAt    time.Time
}

// DefaultTabTitle is shown until the page reports its own title.
const DefaultTabTitle = "Loading"

// NewTab creates a tab that is about to load url.
func NewTab[S Surface](id TabID, surface S, url string) *Tab[S] {
	return &Tab[S]{
		ID:        id,
		Surface:   surface,
		URL:       url,
		Title:     DefaultTabTitle,
		IsLoading: true,
		CreatedAt: time.Now(),
	}
}

// TabSnapshot is the public projection of a tab. It never carries the surface.
type TabSnapshot struct {
	ID           TabID  `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	CanGoBack    bool   `json:"canGoBack"`
	CanGoForward bool   `json:"canGoForward"`
	IsLoading    bool   `json:"isLoading"`
}

// Snapshot projects the tab to its serializable subset.
func (t *Tab[S]) Snapshot() TabSnapshot {
	return TabSnapshot{
		ID:           t.ID,
		URL:          t.URL,
		Title:        t.Title,
		CanGoBack:    t.CanGoBack,
		CanGoForward: t.CanGoForward,
		IsLoading:    t.IsLoading,
	}
}

// TabList owns tabs keyed by ID and remembers insertion order.
type TabList[S Surface] struct {
	order []TabID
	tabs  map[TabID]*Tab[S]
}

// NewTabList creates an empty tab list.
func NewTabList[S Surface]() *TabList[S] {
	return &TabList[S]{
		order: make([]TabID, 0),
		tabs:  make(map[TabID]*Tab[S]),
	}
}

// Add appends a tab. Adding an ID that already exists replaces nothing and returns false.
func (tl *TabList[S]) Add(tab *Tab[S]) bool {
	if tab == nil {
		return false
	}
	if _, exists := tl.tabs[tab.ID]; exists {
		return false
	}
	tl.tabs[tab.ID] = tab
	tl.order = append(tl.order, tab.ID)
	return true
}

// Find returns the tab with the given ID.
func (tl *TabList[S]) Find(id TabID) (*Tab[S], bool) {
	tab, ok := tl.tabs[id]
	return tab, ok
}

// Remove destroys the tab's surface and drops the tab.
// Returns false if the ID is unknown.
func (tl *TabList[S]) Remove(id TabID) bool {
	tab, ok := tl.tabs[id]
	if !ok {
		return false
	}

	tab.Surface.Destroy()
	delete(tl.tabs, id)

	for i, existing := range tl.order {
		if existing == id {
			tl.order = append(tl.order[:i], tl.order[i+1:]...)
			break
		}
	}
	return true
}

// First returns the oldest remaining tab.
func (tl *TabList[S]) First() (*Tab[S], bool) {
	if len(tl.order) == 0 {
		return nil, false
	}
	return tl.tabs[tl.order[0]], true
}

// All returns the tabs in insertion order.
func (tl *TabList[S]) All() []*Tab[S] {
	out := make([]*Tab[S], 0, len(tl.order))
	for _, id := range tl.order {
		out = append(out, tl.tabs[id])
	}
	return out
}

// Count returns the number of tabs.
func (tl *TabList[S]) Count() int {
	return len(tl.order)
}
