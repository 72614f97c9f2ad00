// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package region

import (
	"slices"
	"strings"
)

// Region is a set of pixels stored as non-overlapping rectangles.
//
// Rectangles are kept in y-x banded canonical form: sorted top to bottom,
// then left to right; spans touching inside a band are merged and
// vertically adjacent bands with identical spans are coalesced. Two
// regions covering the same pixels therefore hold the same rectangles.
//
// The zero Region is empty and ready to use. Operations return new values
// and never modify their operands.
type Region struct {
	rects []Rect
}

// New returns the region covered by the union of rects.
// Empty rectangles are ignored.
func New(rects ...Rect) Region {
	return Region{rects: combine(rects, nil, opUnion)}
}

// FromRect returns a region holding the single rectangle r.
func FromRect(r Rect) Region {
	if r.Empty() {
		return Region{}
	}
	return Region{rects: []Rect{r}}
}

// Union returns the pixels in r or o.
func (r Region) Union(o Region) Region {
	switch {
	case len(o.rects) == 0:
		return r.Clone()
	case len(r.rects) == 0:
		return o.Clone()
	}
	return Region{rects: combine(r.rects, o.rects, opUnion)}
}

// UnionRect returns the pixels in r or inside rect.
func (r Region) UnionRect(rect Rect) Region {
	return r.Union(FromRect(rect))
}

// Intersect returns the pixels in both r and o.
func (r Region) Intersect(o Region) Region {
	if len(r.rects) == 0 || len(o.rects) == 0 {
		return Region{}
	}
	if !r.Extents().Overlaps(o.Extents()) {
		return Region{}
	}
	return Region{rects: combine(r.rects, o.rects, opIntersect)}
}

// IntersectRect returns the pixels of r inside rect.
func (r Region) IntersectRect(rect Rect) Region {
	return r.Intersect(FromRect(rect))
}

// Subtract returns the pixels in r that are not in o.
func (r Region) Subtract(o Region) Region {
	if len(r.rects) == 0 {
		return Region{}
	}
	if len(o.rects) == 0 || !r.Extents().Overlaps(o.Extents()) {
		return r.Clone()
	}
	return Region{rects: combine(r.rects, o.rects, opSubtract)}
}

// NotEmpty reports whether the region covers at least one pixel.
func (r Region) NotEmpty() bool {
	return len(r.rects) > 0
}

// Extents returns the bounding box of the region, or the zero Rect when
// the region is empty.
func (r Region) Extents() Rect {
	if len(r.rects) == 0 {
		return Rect{}
	}
	ext := r.rects[0]
	for _, rc := range r.rects[1:] {
		ext.Left = min(ext.Left, rc.Left)
		ext.Top = min(ext.Top, rc.Top)
		ext.Right = max(ext.Right, rc.Right)
		ext.Bottom = max(ext.Bottom, rc.Bottom)
	}
	return ext
}

// Rects returns the rectangles of the region in banded order.
// The returned slice must not be modified.
func (r Region) Rects() []Rect {
	return r.rects
}

// Len returns the number of rectangles in the region.
func (r Region) Len() int {
	return len(r.rects)
}

// Equal reports whether r and o cover the same pixels.
func (r Region) Equal(o Region) bool {
	return slices.Equal(r.rects, o.rects)
}

// Clone returns a copy of r that shares no storage with it.
func (r Region) Clone() Region {
	if len(r.rects) == 0 {
		return Region{}
	}
	return Region{rects: slices.Clone(r.rects)}
}

// Translate returns r moved by (dx, dy).
func (r Region) Translate(dx, dy int) Region {
	out := make([]Rect, len(r.rects))
	for i, rc := range r.rects {
		out[i] = rc.Translate(dx, dy)
	}
	return Region{rects: out}
}

// ContainsPoint reports whether (x, y) is inside the region.
func (r Region) ContainsPoint(x, y int) bool {
	for _, rc := range r.rects {
		if rc.ContainsPoint(x, y) {
			return true
		}
	}
	return false
}

// Area returns the number of pixels covered by the region.
func (r Region) Area() int {
	n := 0
	for _, rc := range r.rects {
		n += rc.Dx() * rc.Dy()
	}
	return n
}

// Clear empties the region, keeping its storage for reuse.
func (r *Region) Clear() {
	r.rects = r.rects[:0]
}

func (r Region) String() string {
	if len(r.rects) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, rc := range r.rects {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(rc.String())
	}
	b.WriteByte('}')
	return b.String()
}
