// Package entity defines domain entities for the browser shell.
package entity

// Rect is an area of the window in pixels, relative to its content area.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BelowStrip returns the part of a content area of the given size left
// below a reserved strip of stripHeight pixels at the top.
func BelowStrip(width, height, stripHeight int) Rect {
	h := height - stripHeight
	if h < 0 {
		h = 0
	}
	if width < 0 {
		width = 0
	}
	return Rect{X: 0, Y: stripHeight, Width: width, Height: h}
}

// Empty reports whether the rectangle has no visible area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}
