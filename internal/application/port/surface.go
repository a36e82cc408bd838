// Package port defines application-layer interfaces for external capabilities.
// Ports abstract the browser engine, the host window and the desktop so the
// coordinators stay independent of CDP, D-Bus or any display transport.
package port

import (
	"context"

	"github.com/bnema/multitab/internal/domain/entity"
)

// SurfaceCallbacks are the per-surface signals the shell listens to.
// Implementations may invoke them from any goroutine.
type SurfaceCallbacks struct {
	// OnTitleChanged is called when the page title changes.
	OnTitleChanged func(title string)
	// OnNavigated is called when a main-frame navigation commits.
	// CanGoBack/CanGoForward already reflect the new history entry.
	OnNavigated func(url string)
	// OnLoadStarted is called when the surface starts loading.
	OnLoadStarted func()
	// OnLoadStopped is called when loading stops, successfully or not.
	OnLoadStopped func()
	// OnContentReady is called once the document is ready to paint.
	OnContentReady func()
	// OnNewWindow is called when the page asks for a new window.
	// The surface never opens the window itself.
	OnNewWindow func(url string)
}

// Surface is an isolated rendering surface sharing the network session.
type Surface interface {
	entity.Surface

	// LoadURL starts loading url. It returns before the load finishes.
	LoadURL(ctx context.Context, url string) error
	// GoBack navigates back in the surface history.
	GoBack(ctx context.Context) error
	// GoForward navigates forward in the surface history.
	GoForward(ctx context.Context) error
	// Reload reloads the current page.
	Reload(ctx context.Context) error

	// CanGoBack reports whether the surface history has a previous entry.
	CanGoBack() bool
	// CanGoForward reports whether the surface history has a next entry.
	CanGoForward() bool

	// SetBounds places the surface inside the window content area and repaints it.
	SetBounds(ctx context.Context, bounds entity.Rect) error
	// Focus gives keyboard focus to the page content.
	Focus(ctx context.Context) error

	// SetCallbacks registers the signal handlers. Pass nil to clear them.
	SetCallbacks(callbacks *SurfaceCallbacks)
}

// SurfaceOptions configures a new surface.
type SurfaceOptions struct {
	// BootstrapScript runs in every document before page scripts.
	BootstrapScript string
}

// SurfaceFactory creates surfaces bound to the shared session.
type SurfaceFactory interface {
	Create(ctx context.Context, opts SurfaceOptions) (Surface, error)
}
