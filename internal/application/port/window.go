package port

import (
	"context"

	"github.com/bnema/multitab/internal/domain/entity"
)

// WindowCallbacks are the host window signals that affect surface geometry.
type WindowCallbacks struct {
	OnResize     func()
	OnMaximize   func()
	OnUnmaximize func()
}

// Window is the single host window with one visible surface slot.
type Window interface {
	// ContentBounds returns the window content area.
	ContentBounds(ctx context.Context) (entity.Rect, error)
	// Attach shows surface in the visible slot.
	Attach(ctx context.Context, surface Surface) error
	// Detach removes surface from the visible slot.
	Detach(ctx context.Context, surface Surface) error
	// SetCallbacks registers the window signal handlers.
	SetCallbacks(callbacks *WindowCallbacks)
}
