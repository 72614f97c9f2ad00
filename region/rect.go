// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package region

import "fmt"

// Rect is an axis-aligned integer rectangle. Right and Bottom are exclusive.
// A rectangle with zero width or height is empty.
type Rect struct {
	Left, Top, Right, Bottom int
}

// R is shorthand for Rect{left, top, right, bottom}.
func R(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// XYWH creates a Rect from an origin and a size.
func XYWH(x, y, w, h int) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Dx returns the width of the rectangle.
func (r Rect) Dx() int {
	return r.Right - r.Left
}

// Dy returns the height of the rectangle.
func (r Rect) Dy() int {
	return r.Bottom - r.Top
}

// Intersect returns the overlap of r and s, or the zero Rect if they
// do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		Left:   max(r.Left, s.Left),
		Top:    max(r.Top, s.Top),
		Right:  min(r.Right, s.Right),
		Bottom: min(r.Bottom, s.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Overlaps reports whether r and s share at least one pixel.
func (r Rect) Overlaps(s Rect) bool {
	return !r.Intersect(s).Empty()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// ContainsPoint reports whether (x, y) lies inside r.
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}
